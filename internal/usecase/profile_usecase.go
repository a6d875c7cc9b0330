package usecase

import (
	"context"
	"errors"
	"strings"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
)

type profileUsecase struct {
	userRepo domain.UserRepository
}

func NewProfileUsecase(userRepo domain.UserRepository) domain.ProfileUsecase {
	return &profileUsecase{userRepo: userRepo}
}

func (u *profileUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *profileUsecase) UpdateProfile(ctx context.Context, userID string, update domain.UserUpdate) (*domain.User, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperror.BadRequest("Name cannot be empty")
		}
		update.Name = &name
	}
	if update.Bio != nil {
		bio := strings.TrimSpace(*update.Bio)
		update.Bio = &bio
	}
	if update.Name == nil && update.Bio == nil && update.ProfileImage == nil {
		return u.GetProfile(ctx, userID)
	}

	user, err := u.userRepo.Update(ctx, userID, update)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}
