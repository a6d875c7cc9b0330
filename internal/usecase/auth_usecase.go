package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/auth"
	"job-marketplace-api/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid email or password"

type authUsecase struct {
	userRepo    domain.UserRepository
	companyRepo domain.CompanyRepository
	tokens      *auth.TokenIssuer
	defaultLogo string
}

func NewAuthUsecase(userRepo domain.UserRepository, companyRepo domain.CompanyRepository, tokens *auth.TokenIssuer, defaultLogo string) domain.AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		tokens:      tokens,
		defaultLogo: defaultLogo,
	}
}

func (u *authUsecase) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.CompanyID = strings.TrimSpace(in.CompanyID)
	in.CompanyName = strings.TrimSpace(in.CompanyName)

	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, apperror.BadRequest("Name, email, password and role are required")
	}
	if in.Role != domain.RoleJobseeker && in.Role != domain.RoleEmployer {
		return nil, apperror.BadRequest("Role must be jobseeker or employer")
	}

	_, err := u.userRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, apperror.BadRequest("User already exists")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if in.Role == domain.RoleEmployer {
		if in.CompanyID == "" || in.CompanyName == "" {
			return nil, apperror.BadRequest("Company ID and company name are required for employers")
		}
		if err := u.createCompany(ctx, &domain.Company{
			CompanyID:   in.CompanyID,
			CompanyName: in.CompanyName,
			Address:     strings.TrimSpace(in.Address),
			Industry:    strings.TrimSpace(in.Industry),
			Website:     strings.TrimSpace(in.Website),
			Logo:        u.defaultLogo,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			return nil, err
		}
		user.CompanyID = in.CompanyID
		user.CompanyName = in.CompanyName
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	user.PasswordHash = string(hash)

	if err := u.userRepo.Create(ctx, user); err != nil {
		if user.CompanyID != "" {
			u.releaseCompany(ctx, user.CompanyID)
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.BadRequest("User already exists")
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return u.issue(user)
}

func (u *authUsecase) createCompany(ctx context.Context, company *domain.Company) error {
	_, err := u.companyRepo.GetByCompanyID(ctx, company.CompanyID)
	if err == nil {
		return apperror.BadRequest("Company ID already exists")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return apperror.Internal(err)
	}

	if err := u.companyRepo.Create(ctx, company); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return apperror.BadRequest("Company ID already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

// releaseCompany removes a company created for a registration whose user
// insert failed, so its companyId can be claimed again.
func (u *authUsecase) releaseCompany(ctx context.Context, companyID string) {
	if err := u.companyRepo.Delete(context.WithoutCancel(ctx), companyID); err != nil {
		logger.Log.Warn("failed to release company after registration error", "company_id", companyID, "error", err)
	}
}

func (u *authUsecase) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperror.BadRequest("Email and password are required")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.BadRequest(invalidCredentials)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.BadRequest(invalidCredentials)
	}

	if user.Role == domain.RoleEmployer {
		companyID := strings.TrimSpace(in.CompanyID)
		if companyID == "" {
			return nil, apperror.BadRequest("Company ID is required for employer login")
		}
		if companyID != user.CompanyID {
			return nil, apperror.BadRequest("Company ID does not match this account")
		}
		if _, err := u.companyRepo.GetByCompanyID(ctx, companyID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.BadRequest("Company not found")
			}
			return nil, apperror.Internal(err)
		}
	}

	return u.issue(user)
}

func (u *authUsecase) issue(user *domain.User) (*domain.AuthResult, error) {
	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to the current user record. The user
// is loaded on every call so role or company changes apply immediately.
func (u *authUsecase) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	userID, err := u.tokens.Verify(token)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Unauthorized("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	identity := &domain.Identity{User: user}
	if user.Role == domain.RoleEmployer && user.CompanyID != "" {
		company, err := u.companyRepo.GetByCompanyID(ctx, user.CompanyID)
		switch {
		case err == nil:
			identity.Company = company
		case !errors.Is(err, domain.ErrNotFound):
			return nil, apperror.Internal(err)
		}
	}
	return identity, nil
}
