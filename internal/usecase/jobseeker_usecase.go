package usecase

import (
	"context"
	"errors"
	"strings"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/validation"
)

type jobseekerUsecase struct {
	userRepo domain.UserRepository
}

func NewJobseekerUsecase(userRepo domain.UserRepository) domain.JobseekerUsecase {
	return &jobseekerUsecase{userRepo: userRepo}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (u *jobseekerUsecase) UpdateMarks(ctx context.Context, requester domain.Requester, marks domain.Marks) (*domain.User, error) {
	if err := requireJobseeker(requester); err != nil {
		return nil, err
	}

	marks = domain.Marks{
		Tenth:   trimmedOrNil(marks.Tenth),
		Twelfth: trimmedOrNil(marks.Twelfth),
		Degree:  trimmedOrNil(marks.Degree),
	}
	if marks.Tenth == nil && marks.Twelfth == nil && marks.Degree == nil {
		return nil, apperror.BadRequest("At least one of tenth, twelfth or degree is required")
	}

	return u.mapUserErr(u.userRepo.SetMarks(ctx, requester.UserID, marks))
}

func (u *jobseekerUsecase) SetCertificate(ctx context.Context, requester domain.Requester, certType, ref string) (*domain.User, error) {
	if err := requireJobseeker(requester); err != nil {
		return nil, err
	}

	certType = strings.TrimSpace(certType)
	if certType == "" {
		certType = domain.DefaultCertificateType
	}
	if !validation.IsCertificateType(certType) {
		return nil, apperror.BadRequest("Certificate type may only contain letters, digits, '-' and '_'")
	}

	return u.mapUserErr(u.userRepo.SetCertificate(ctx, requester.UserID, certType, ref))
}

func (u *jobseekerUsecase) SetProfileImage(ctx context.Context, requester domain.Requester, ref string) (*domain.User, error) {
	if err := requireJobseeker(requester); err != nil {
		return nil, err
	}
	return u.mapUserErr(u.userRepo.Update(ctx, requester.UserID, domain.UserUpdate{ProfileImage: &ref}))
}

func (u *jobseekerUsecase) mapUserErr(user *domain.User, err error) (*domain.User, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}
