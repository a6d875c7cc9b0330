package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
)

type companyUsecase struct {
	companyRepo domain.CompanyRepository
	userRepo    domain.UserRepository
	defaultLogo string
}

func NewCompanyUsecase(companyRepo domain.CompanyRepository, userRepo domain.UserRepository, defaultLogo string) domain.CompanyUsecase {
	return &companyUsecase{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		defaultLogo: defaultLogo,
	}
}

// Verify returns (nil, nil) when no company has the given id.
func (u *companyUsecase) Verify(ctx context.Context, companyID string) (*domain.Company, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, apperror.BadRequest("Company ID is required")
	}
	company, err := u.companyRepo.GetByCompanyID(ctx, companyID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return company, nil
}

func (u *companyUsecase) Create(ctx context.Context, requester domain.Requester, company *domain.Company) (*domain.Company, error) {
	if !requester.IsEmployer() {
		return nil, apperror.Forbidden("Only employers can create a company")
	}
	if requester.CompanyID != "" {
		return nil, apperror.BadRequest("Your account is already linked to a company")
	}

	company.CompanyID = strings.TrimSpace(company.CompanyID)
	company.CompanyName = strings.TrimSpace(company.CompanyName)
	if company.CompanyID == "" || company.CompanyName == "" {
		return nil, apperror.BadRequest("Company ID and company name are required")
	}

	_, err := u.companyRepo.GetByCompanyID(ctx, company.CompanyID)
	if err == nil {
		return nil, apperror.BadRequest("Company ID already exists")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	if company.Logo == "" {
		company.Logo = u.defaultLogo
	}
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	if err := u.companyRepo.Create(ctx, company); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.BadRequest("Company ID already exists")
		}
		return nil, apperror.Internal(err)
	}

	if err := u.userRepo.SetCompany(ctx, requester.UserID, company.CompanyID, company.CompanyName); err != nil {
		return nil, apperror.Internal(err)
	}
	return company, nil
}

func (u *companyUsecase) UpdateProfile(ctx context.Context, requester domain.Requester, update domain.CompanyUpdate) (*domain.Company, error) {
	if !requester.IsEmployer() {
		return nil, apperror.Forbidden("Only employers can update a company profile")
	}
	if requester.CompanyID == "" {
		return nil, apperror.BadRequest("Your account is not linked to a company")
	}

	for _, field := range []*string{update.CompanyName, update.Address, update.Industry, update.Website, update.Logo, update.Description, update.Size} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	if update.CompanyName != nil && *update.CompanyName == "" {
		return nil, apperror.BadRequest("Company name cannot be empty")
	}

	company, err := u.companyRepo.Update(ctx, requester.CompanyID, update)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Company not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return company, nil
}

func (u *companyUsecase) SetLogo(ctx context.Context, requester domain.Requester, companyID, logoRef string) (*domain.Company, error) {
	if !requester.IsEmployer() {
		return nil, apperror.Forbidden("Only employers can upload a company logo")
	}
	if requester.CompanyID == "" || requester.CompanyID != companyID {
		return nil, apperror.Forbidden("You can only change your own company's logo")
	}

	company, err := u.companyRepo.Update(ctx, companyID, domain.CompanyUpdate{Logo: &logoRef})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Company not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return company, nil
}
