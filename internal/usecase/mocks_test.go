package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) user(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return m.user(m.Called(ctx, id))
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.user(m.Called(ctx, email))
}
func (m *MockUserRepo) Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	return m.user(m.Called(ctx, id, update))
}
func (m *MockUserRepo) SetCompany(ctx context.Context, id, companyID, companyName string) error {
	return m.Called(ctx, id, companyID, companyName).Error(0)
}
func (m *MockUserRepo) SetMarks(ctx context.Context, id string, marks domain.Marks) (*domain.User, error) {
	return m.user(m.Called(ctx, id, marks))
}
func (m *MockUserRepo) SetCertificate(ctx context.Context, id, certType, ref string) (*domain.User, error) {
	return m.user(m.Called(ctx, id, certType, ref))
}

type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) company(args mock.Arguments) (*domain.Company, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepo) Create(ctx context.Context, company *domain.Company) error {
	return m.Called(ctx, company).Error(0)
}
func (m *MockCompanyRepo) GetByCompanyID(ctx context.Context, companyID string) (*domain.Company, error) {
	return m.company(m.Called(ctx, companyID))
}
func (m *MockCompanyRepo) Update(ctx context.Context, companyID string, update domain.CompanyUpdate) (*domain.Company, error) {
	return m.company(m.Called(ctx, companyID, update))
}
func (m *MockCompanyRepo) Delete(ctx context.Context, companyID string) error {
	return m.Called(ctx, companyID).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) Find(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}
func (m *MockJobRepo) Update(ctx context.Context, id string, update domain.JobUpdate) (*domain.Job, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) apps(args mock.Arguments) ([]domain.Application, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) counts(args mock.Arguments) (map[string]int64, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) Exists(ctx context.Context, jobID, applicantID string) (bool, error) {
	args := m.Called(ctx, jobID, applicantID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	return m.apps(m.Called(ctx, jobID))
}
func (m *MockApplicationRepo) ListByJobs(ctx context.Context, jobIDs []string) ([]domain.Application, error) {
	return m.apps(m.Called(ctx, jobIDs))
}
func (m *MockApplicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	return m.apps(m.Called(ctx, applicantID))
}
func (m *MockApplicationRepo) CountByJob(ctx context.Context, jobID string) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockApplicationRepo) CountByStatusForJobs(ctx context.Context, jobIDs []string) (map[string]int64, error) {
	return m.counts(m.Called(ctx, jobIDs))
}
func (m *MockApplicationRepo) CountByStatusForApplicant(ctx context.Context, applicantID string) (map[string]int64, error) {
	return m.counts(m.Called(ctx, applicantID))
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockApplicationRepo) UpdateReviewStatus(ctx context.Context, id, reviewStatus string) error {
	return m.Called(ctx, id, reviewStatus).Error(0)
}
func (m *MockApplicationRepo) DeleteByJobID(ctx context.Context, jobID string) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

// memStorage is an in-memory FileStorage.
type memStorage struct {
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}}
}

func (s *memStorage) Save(_ context.Context, folder, name string, data []byte, _ string) (string, error) {
	ref := folder + "/" + name
	s.files[ref] = data
	return ref, nil
}

func (s *memStorage) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	data, ok := s.files[ref]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func assertAppError(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	if assert.True(t, errors.As(err, &appErr), "expected AppError, got %v", err) {
		assert.Equal(t, code, appErr.Code, appErr.Message)
	}
}

var ctx = context.Background()

const (
	jobID    = "64b7f0c2a1b2c3d4e5f60718"
	appID    = "64b7f0c2a1b2c3d4e5f60720"
	ownerID  = "64b7f0c2a1b2c3d4e5f60730"
	seekerID = "64b7f0c2a1b2c3d4e5f60740"
)

var (
	employer  = domain.Requester{UserID: ownerID, Role: domain.RoleEmployer, CompanyID: "acme"}
	jobseeker = domain.Requester{UserID: seekerID, Role: domain.RoleJobseeker}
)
