package usecase_test

import (
	"net/http"
	"testing"
	"time"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/internal/usecase"
	"job-marketplace-api/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthUsecase() (domain.AuthUsecase, *MockUserRepo, *MockCompanyRepo, *auth.TokenIssuer) {
	users := new(MockUserRepo)
	companies := new(MockCompanyRepo)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return usecase.NewAuthUsecase(users, companies, tokens, defaultLogo), users, companies, tokens
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		uc, _, _, _ := newAuthUsecase()
		_, err := uc.Register(ctx, domain.RegisterInput{Email: "a@b.com", Password: "x", Role: domain.RoleJobseeker})
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("unknown role", func(t *testing.T) {
		uc, _, _, _ := newAuthUsecase()
		_, err := uc.Register(ctx, domain.RegisterInput{Name: "A", Email: "a@b.com", Password: "x", Role: "admin"})
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("email taken", func(t *testing.T) {
		uc, users, _, _ := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{ID: seekerID}, nil)
		_, err := uc.Register(ctx, domain.RegisterInput{Name: "A", Email: " A@B.com ", Password: "x", Role: domain.RoleJobseeker})
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("jobseeker registered with token", func(t *testing.T) {
		uc, users, _, tokens := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "jane@example.com").Return(nil, domain.ErrNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = seekerID }).
			Return(nil)

		res, err := uc.Register(ctx, domain.RegisterInput{Name: "Jane", Email: "Jane@Example.com", Password: "pw123456", Role: domain.RoleJobseeker})
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", res.User.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("pw123456")))

		sub, err := tokens.Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, seekerID, sub)
	})

	t.Run("employer needs company fields", func(t *testing.T) {
		uc, users, _, _ := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "boss@acme.com").Return(nil, domain.ErrNotFound)
		_, err := uc.Register(ctx, domain.RegisterInput{Name: "Boss", Email: "boss@acme.com", Password: "pw", Role: domain.RoleEmployer})
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("employer company id taken", func(t *testing.T) {
		uc, users, companies, _ := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "boss@acme.com").Return(nil, domain.ErrNotFound)
		companies.On("GetByCompanyID", mock.Anything, "acme").Return(&domain.Company{CompanyID: "acme"}, nil)
		_, err := uc.Register(ctx, domain.RegisterInput{Name: "Boss", Email: "boss@acme.com", Password: "pw", Role: domain.RoleEmployer, CompanyID: "acme", CompanyName: "Acme"})
		assertAppError(t, err, http.StatusBadRequest)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("employer creates company and links it", func(t *testing.T) {
		uc, users, companies, _ := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "boss@acme.com").Return(nil, domain.ErrNotFound)
		companies.On("GetByCompanyID", mock.Anything, "acme").Return(nil, domain.ErrNotFound)
		companies.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Company) bool {
			return c.CompanyID == "acme" && c.CompanyName == "Acme" && c.Logo == defaultLogo
		})).Return(nil)
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = ownerID }).
			Return(nil)

		res, err := uc.Register(ctx, domain.RegisterInput{Name: "Boss", Email: "boss@acme.com", Password: "pw", Role: domain.RoleEmployer, CompanyID: "acme", CompanyName: "Acme"})
		require.NoError(t, err)
		assert.Equal(t, "acme", res.User.CompanyID)
		assert.NotEmpty(t, res.Token)
		companies.AssertExpectations(t)
		companies.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("employer company released when user insert fails", func(t *testing.T) {
		uc, users, companies, _ := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "boss@acme.com").Return(nil, domain.ErrNotFound)
		companies.On("GetByCompanyID", mock.Anything, "acme").Return(nil, domain.ErrNotFound)
		companies.On("Create", mock.Anything, mock.AnythingOfType("*domain.Company")).Return(nil)
		companies.On("Delete", mock.Anything, "acme").Return(nil)
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(domain.ErrDuplicate)

		_, err := uc.Register(ctx, domain.RegisterInput{Name: "Boss", Email: "boss@acme.com", Password: "pw", Role: domain.RoleEmployer, CompanyID: "acme", CompanyName: "Acme"})
		assertAppError(t, err, http.StatusBadRequest)
		companies.AssertCalled(t, "Delete", mock.Anything, "acme")
	})
}

func TestLogin(t *testing.T) {
	seeker := &domain.User{ID: seekerID, Email: "jane@example.com", Role: domain.RoleJobseeker, PasswordHash: hashed(t, "right")}
	boss := &domain.User{ID: ownerID, Email: "boss@acme.com", Role: domain.RoleEmployer, CompanyID: "acme", PasswordHash: hashed(t, "right")}

	t.Run("unknown email", func(t *testing.T) {
		uc, users, _, _ := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrNotFound)
		_, err := uc.Login(ctx, domain.LoginInput{Email: "nobody@example.com", Password: "x"})
		assertAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, "Invalid email or password", err.Error())
	})

	t.Run("wrong password", func(t *testing.T) {
		uc, users, _, _ := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "jane@example.com").Return(seeker, nil)
		_, err := uc.Login(ctx, domain.LoginInput{Email: "jane@example.com", Password: "wrong"})
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("jobseeker ok", func(t *testing.T) {
		uc, users, _, _ := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "jane@example.com").Return(seeker, nil)
		res, err := uc.Login(ctx, domain.LoginInput{Email: "JANE@example.com", Password: "right"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("employer without company id", func(t *testing.T) {
		uc, users, _, _ := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "boss@acme.com").Return(boss, nil)
		_, err := uc.Login(ctx, domain.LoginInput{Email: "boss@acme.com", Password: "right"})
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("employer wrong company id", func(t *testing.T) {
		uc, users, _, _ := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "boss@acme.com").Return(boss, nil)
		_, err := uc.Login(ctx, domain.LoginInput{Email: "boss@acme.com", Password: "right", CompanyID: "globex"})
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("employer company deleted", func(t *testing.T) {
		uc, users, companies, _ := newAuthUsecase()
		users.On("GetByEmail", mock.Anything, "boss@acme.com").Return(boss, nil)
		companies.On("GetByCompanyID", mock.Anything, "acme").Return(nil, domain.ErrNotFound)
		_, err := uc.Login(ctx, domain.LoginInput{Email: "boss@acme.com", Password: "right", CompanyID: "acme"})
		assertAppError(t, err, http.StatusBadRequest)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("garbage token", func(t *testing.T) {
		uc, _, _, _ := newAuthUsecase()
		_, err := uc.Authenticate(ctx, "abc.def")
		assertAppError(t, err, http.StatusUnauthorized)
	})

	t.Run("user deleted after issue", func(t *testing.T) {
		uc, users, _, tokens := newAuthUsecase()
		token, err := tokens.Issue(seekerID)
		require.NoError(t, err)
		users.On("GetByID", mock.Anything, seekerID).Return(nil, domain.ErrNotFound)

		_, err = uc.Authenticate(ctx, token)
		assertAppError(t, err, http.StatusUnauthorized)
	})

	t.Run("employer gets company attached", func(t *testing.T) {
		uc, users, companies, tokens := newAuthUsecase()
		token, err := tokens.Issue(ownerID)
		require.NoError(t, err)
		users.On("GetByID", mock.Anything, ownerID).Return(&domain.User{ID: ownerID, Role: domain.RoleEmployer, CompanyID: "acme"}, nil)
		companies.On("GetByCompanyID", mock.Anything, "acme").Return(&domain.Company{CompanyID: "acme"}, nil)

		id, err := uc.Authenticate(ctx, token)
		require.NoError(t, err)
		require.NotNil(t, id.Company)
		assert.Equal(t, domain.Requester{UserID: ownerID, Role: domain.RoleEmployer, CompanyID: "acme"}, id.User.Requester())
	})
}
