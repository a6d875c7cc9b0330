package usecase_test

import (
	"net/http"
	"testing"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCompanyUsecase() (domain.CompanyUsecase, *MockCompanyRepo, *MockUserRepo) {
	companies := new(MockCompanyRepo)
	users := new(MockUserRepo)
	return usecase.NewCompanyUsecase(companies, users, defaultLogo), companies, users
}

func TestCompanyVerify(t *testing.T) {
	uc, companies, _ := newCompanyUsecase()
	companies.On("GetByCompanyID", mock.Anything, "acme").Return(&domain.Company{CompanyID: "acme"}, nil)
	companies.On("GetByCompanyID", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	c, err := uc.Verify(ctx, " acme ")
	require.NoError(t, err)
	assert.Equal(t, "acme", c.CompanyID)

	c, err = uc.Verify(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = uc.Verify(ctx, "")
	assertAppError(t, err, http.StatusBadRequest)
}

func TestCompanyCreate(t *testing.T) {
	unlinked := domain.Requester{UserID: ownerID, Role: domain.RoleEmployer}

	t.Run("already linked", func(t *testing.T) {
		uc, _, _ := newCompanyUsecase()
		_, err := uc.Create(ctx, employer, &domain.Company{CompanyID: "new", CompanyName: "New"})
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("links user", func(t *testing.T) {
		uc, companies, users := newCompanyUsecase()
		companies.On("GetByCompanyID", mock.Anything, "initech").Return(nil, domain.ErrNotFound)
		companies.On("Create", mock.Anything, mock.AnythingOfType("*domain.Company")).Return(nil)
		users.On("SetCompany", mock.Anything, ownerID, "initech", "Initech").Return(nil)

		c, err := uc.Create(ctx, unlinked, &domain.Company{CompanyID: "initech", CompanyName: " Initech "})
		require.NoError(t, err)
		assert.Equal(t, defaultLogo, c.Logo)
		users.AssertExpectations(t)
	})
}

func TestCompanySetLogoRequiresOwnCompany(t *testing.T) {
	uc, companies, _ := newCompanyUsecase()
	logo := "/uploads/company-logos/x.jpg"
	companies.On("Update", mock.Anything, "acme", domain.CompanyUpdate{Logo: &logo}).Return(&domain.Company{CompanyID: "acme", Logo: logo}, nil)

	_, err := uc.SetLogo(ctx, employer, "globex", logo)
	assertAppError(t, err, http.StatusForbidden)

	_, err = uc.SetLogo(ctx, jobseeker, "acme", logo)
	assertAppError(t, err, http.StatusForbidden)

	c, err := uc.SetLogo(ctx, employer, "acme", logo)
	require.NoError(t, err)
	assert.Equal(t, logo, c.Logo)
}

func TestCompanyUpdateProfile(t *testing.T) {
	uc, companies, _ := newCompanyUsecase()
	blank := "  "
	_, err := uc.UpdateProfile(ctx, employer, domain.CompanyUpdate{CompanyName: &blank})
	assertAppError(t, err, http.StatusBadRequest)

	industry := "Software"
	companies.On("Update", mock.Anything, "acme", mock.Anything).Return(&domain.Company{CompanyID: "acme", Industry: industry}, nil)
	c, err := uc.UpdateProfile(ctx, employer, domain.CompanyUpdate{Industry: &industry})
	require.NoError(t, err)
	assert.Equal(t, "Software", c.Industry)
}
