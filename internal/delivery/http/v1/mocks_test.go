package v1

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/storage"

	"github.com/stretchr/testify/mock"
)

type fakeAuth struct {
	users map[string]*domain.User
}

func (f *fakeAuth) Register(context.Context, domain.RegisterInput) (*domain.AuthResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeAuth) Login(_ context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	for token, u := range f.users {
		if u.Email == in.Email && in.Password == "secret1" {
			return &domain.AuthResult{Token: token, User: u}, nil
		}
	}
	return nil, apperror.BadRequest("Invalid email or password")
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*domain.Identity, error) {
	if u, ok := f.users[token]; ok {
		return &domain.Identity{User: u}, nil
	}
	return nil, apperror.Unauthorized("Not authorized, token failed")
}

type MockJobUC struct{ mock.Mock }

func (m *MockJobUC) page(args mock.Arguments) (*domain.PaginatedResult[domain.Job], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaginatedResult[domain.Job]), args.Error(1)
}

func (m *MockJobUC) job(args mock.Arguments) (*domain.Job, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobUC) ListJobs(ctx context.Context, page, limit int) (*domain.PaginatedResult[domain.Job], error) {
	return m.page(m.Called(ctx, page, limit))
}
func (m *MockJobUC) SearchJobs(ctx context.Context, filter domain.JobFilter) (*domain.PaginatedResult[domain.Job], error) {
	return m.page(m.Called(ctx, filter))
}
func (m *MockJobUC) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	return m.job(m.Called(ctx, id))
}
func (m *MockJobUC) CreateJob(ctx context.Context, r domain.Requester, in domain.JobInput) (*domain.Job, error) {
	return m.job(m.Called(ctx, r, in))
}
func (m *MockJobUC) ListEmployerJobs(ctx context.Context, r domain.Requester, filter domain.JobFilter) (*domain.PaginatedResult[domain.Job], error) {
	return m.page(m.Called(ctx, r, filter))
}
func (m *MockJobUC) UpdateJob(ctx context.Context, r domain.Requester, id string, update domain.JobUpdate) (*domain.Job, error) {
	return m.job(m.Called(ctx, r, id, update))
}
func (m *MockJobUC) DeleteJob(ctx context.Context, r domain.Requester, id string) error {
	return m.Called(ctx, r, id).Error(0)
}

type MockApplicationUC struct{ mock.Mock }

func (m *MockApplicationUC) Apply(ctx context.Context, r domain.Requester, jobID, resumeURL string) (*domain.Application, error) {
	args := m.Called(ctx, r, jobID, resumeURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationUC) ListMine(ctx context.Context, r domain.Requester) ([]domain.ApplicationWithJob, error) {
	args := m.Called(ctx, r)
	return args.Get(0).([]domain.ApplicationWithJob), args.Error(1)
}
func (m *MockApplicationUC) ListForJob(ctx context.Context, r domain.Requester, jobID string) ([]domain.ApplicationWithApplicant, error) {
	args := m.Called(ctx, r, jobID)
	return args.Get(0).([]domain.ApplicationWithApplicant), args.Error(1)
}
func (m *MockApplicationUC) CountForJob(ctx context.Context, r domain.Requester, jobID string) (int64, error) {
	args := m.Called(ctx, r, jobID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockApplicationUC) ListEmployerJobs(ctx context.Context, r domain.Requester) ([]domain.Job, error) {
	args := m.Called(ctx, r)
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockApplicationUC) ListEmployerApplications(ctx context.Context, r domain.Requester) ([]domain.Application, error) {
	args := m.Called(ctx, r)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationUC) UpdateStatus(ctx context.Context, r domain.Requester, appID, status string) error {
	return m.Called(ctx, r, appID, status).Error(0)
}
func (m *MockApplicationUC) UpdateReviewStatus(ctx context.Context, r domain.Requester, appID, reviewStatus string) error {
	return m.Called(ctx, r, appID, reviewStatus).Error(0)
}

type MockExportUC struct{ mock.Mock }

func (m *MockExportUC) PrepareResumeArchive(ctx context.Context, r domain.Requester, jobID string) (*domain.ResumeArchive, error) {
	args := m.Called(ctx, r, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResumeArchive), args.Error(1)
}
func (m *MockExportUC) WriteResumeArchive(ctx context.Context, archive *domain.ResumeArchive, w io.Writer) error {
	args := m.Called(ctx, archive, w)
	if data, ok := args.Get(0).([]byte); ok {
		_, _ = w.Write(data)
	}
	return args.Error(1)
}
func (m *MockExportUC) ExportApplicants(ctx context.Context, r domain.Requester, jobID, format string) (*domain.ExportFile, error) {
	args := m.Called(ctx, r, jobID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportFile), args.Error(1)
}

type MockCompanyUC struct{ mock.Mock }

func (m *MockCompanyUC) company(args mock.Arguments) (*domain.Company, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyUC) Verify(ctx context.Context, companyID string) (*domain.Company, error) {
	return m.company(m.Called(ctx, companyID))
}
func (m *MockCompanyUC) Create(ctx context.Context, r domain.Requester, company *domain.Company) (*domain.Company, error) {
	return m.company(m.Called(ctx, r, company))
}
func (m *MockCompanyUC) UpdateProfile(ctx context.Context, r domain.Requester, update domain.CompanyUpdate) (*domain.Company, error) {
	return m.company(m.Called(ctx, r, update))
}
func (m *MockCompanyUC) SetLogo(ctx context.Context, r domain.Requester, companyID, logoRef string) (*domain.Company, error) {
	return m.company(m.Called(ctx, r, companyID, logoRef))
}

type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *memFiles) Save(_ context.Context, folder, name string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := folder + "/" + name
	s.files[ref] = data
	return ref, nil
}

func (s *memFiles) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[ref]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
