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

const defaultLogo = "/uploads/default.png"

func newJobUsecase() (domain.JobUsecase, *MockJobRepo, *MockCompanyRepo, *MockApplicationRepo) {
	jobs := new(MockJobRepo)
	companies := new(MockCompanyRepo)
	apps := new(MockApplicationRepo)
	return usecase.NewJobUsecase(jobs, companies, apps, defaultLogo), jobs, companies, apps
}

func TestCreateJob(t *testing.T) {
	valid := domain.JobInput{
		Title:       " Backend Engineer ",
		Description: "Build APIs",
		Skills:      []string{"Go", " go ", "", "MongoDB"},
	}

	t.Run("jobseeker is forbidden", func(t *testing.T) {
		uc, _, _, _ := newJobUsecase()
		_, err := uc.CreateJob(ctx, jobseeker, valid)
		assertAppError(t, err, http.StatusForbidden)
	})

	t.Run("employer without company", func(t *testing.T) {
		uc, _, _, _ := newJobUsecase()
		_, err := uc.CreateJob(ctx, domain.Requester{UserID: ownerID, Role: domain.RoleEmployer}, valid)
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("company id mismatch", func(t *testing.T) {
		uc, _, _, _ := newJobUsecase()
		in := valid
		in.CompanyID = "globex"
		_, err := uc.CreateJob(ctx, employer, in)
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("company record missing", func(t *testing.T) {
		uc, _, companies, _ := newJobUsecase()
		companies.On("GetByCompanyID", mock.Anything, "acme").Return(nil, domain.ErrNotFound)
		_, err := uc.CreateJob(ctx, employer, valid)
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("title required", func(t *testing.T) {
		uc, _, companies, _ := newJobUsecase()
		companies.On("GetByCompanyID", mock.Anything, "acme").Return(&domain.Company{CompanyID: "acme", CompanyName: "Acme"}, nil)
		in := valid
		in.Title = "  "
		_, err := uc.CreateJob(ctx, employer, in)
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("success snapshots company", func(t *testing.T) {
		uc, jobs, companies, _ := newJobUsecase()
		companies.On("GetByCompanyID", mock.Anything, "acme").Return(&domain.Company{CompanyID: "acme", CompanyName: "Acme"}, nil)
		jobs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Job")).Return(nil)

		in := valid
		in.CompanyID = "acme"
		job, err := uc.CreateJob(ctx, employer, in)
		require.NoError(t, err)

		assert.Equal(t, "Backend Engineer", job.Title)
		assert.Equal(t, []string{"Go", "MongoDB"}, job.Skills)
		assert.Equal(t, domain.DefaultJobType, job.Type)
		assert.Equal(t, "acme", job.CompanyID)
		assert.Equal(t, ownerID, job.PostedBy)
		assert.Equal(t, domain.JobCompany{Name: "Acme", Logo: defaultLogo}, job.Company)
		assert.False(t, job.CreatedAt.IsZero())
		jobs.AssertExpectations(t)
	})
}

func TestUpdateJobOwnership(t *testing.T) {
	title := "New title"
	update := domain.JobUpdate{Title: &title}

	t.Run("other company is forbidden", func(t *testing.T) {
		uc, jobs, _, _ := newJobUsecase()
		jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, CompanyID: "globex", PostedBy: "someone"}, nil)

		_, err := uc.UpdateJob(ctx, employer, jobID, update)
		assertAppError(t, err, http.StatusForbidden)
		jobs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("legacy job without company is editable by poster", func(t *testing.T) {
		uc, jobs, _, _ := newJobUsecase()
		jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, PostedBy: ownerID}, nil)
		jobs.On("Update", mock.Anything, jobID, update).Return(&domain.Job{ID: jobID, Title: title}, nil)

		job, err := uc.UpdateJob(ctx, employer, jobID, update)
		require.NoError(t, err)
		assert.Equal(t, title, job.Title)
	})

	t.Run("missing job", func(t *testing.T) {
		uc, jobs, _, _ := newJobUsecase()
		jobs.On("GetByID", mock.Anything, jobID).Return(nil, domain.ErrNotFound)
		_, err := uc.UpdateJob(ctx, employer, jobID, update)
		assertAppError(t, err, http.StatusNotFound)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		uc, jobs, _, _ := newJobUsecase()
		jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, CompanyID: "acme"}, nil)
		blank := " "
		_, err := uc.UpdateJob(ctx, employer, jobID, domain.JobUpdate{Title: &blank})
		assertAppError(t, err, http.StatusBadRequest)
	})
}

func TestDeleteJobCascades(t *testing.T) {
	uc, jobs, _, apps := newJobUsecase()
	jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, CompanyID: "acme"}, nil)
	jobs.On("Delete", mock.Anything, jobID).Return(nil)
	apps.On("DeleteByJobID", mock.Anything, jobID).Return(int64(3), nil)

	require.NoError(t, uc.DeleteJob(ctx, employer, jobID))
	apps.AssertExpectations(t)

	t.Run("non owner cannot delete", func(t *testing.T) {
		uc, jobs, _, apps := newJobUsecase()
		jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, CompanyID: "globex"}, nil)

		err := uc.DeleteJob(ctx, employer, jobID)
		assertAppError(t, err, http.StatusForbidden)
		apps.AssertNotCalled(t, "DeleteByJobID", mock.Anything, mock.Anything)
	})
}

func TestListEmployerJobs(t *testing.T) {
	t.Run("company scope and default limit", func(t *testing.T) {
		uc, jobs, _, _ := newJobUsecase()
		want := domain.JobFilter{Scope: &domain.JobScope{CompanyID: "acme"}, Page: 1, Limit: 10}
		jobs.On("Find", mock.Anything, want).Return([]domain.Job{{ID: jobID}}, int64(1), nil)

		res, err := uc.ListEmployerJobs(ctx, employer, domain.JobFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Total)
		assert.Equal(t, 1, res.TotalPages)
	})

	t.Run("poster scope, oldest alias, search limit", func(t *testing.T) {
		uc, jobs, _, _ := newJobUsecase()
		r := domain.Requester{UserID: ownerID, Role: domain.RoleEmployer}
		want := domain.JobFilter{
			Scope:   &domain.JobScope{PostedBy: ownerID},
			SortBy:  "createdAt",
			SortAsc: true,
			Page:    2,
			Limit:   20,
		}
		jobs.On("Find", mock.Anything, want).Return([]domain.Job{}, int64(0), nil)

		_, err := uc.ListEmployerJobs(ctx, r, domain.JobFilter{SortBy: "oldest", Page: 2})
		require.NoError(t, err)
		jobs.AssertExpectations(t)
	})

	t.Run("jobseeker forbidden", func(t *testing.T) {
		uc, _, _, _ := newJobUsecase()
		_, err := uc.ListEmployerJobs(ctx, jobseeker, domain.JobFilter{})
		assertAppError(t, err, http.StatusForbidden)
	})
}

func TestPublicJobQueries(t *testing.T) {
	t.Run("list clamps limit", func(t *testing.T) {
		uc, jobs, _, _ := newJobUsecase()
		jobs.On("Find", mock.Anything, domain.JobFilter{Page: 1, Limit: 50}).Return([]domain.Job{}, int64(0), nil)
		res, err := uc.ListJobs(ctx, 0, 1000)
		require.NoError(t, err)
		assert.Equal(t, 50, res.Limit)
	})

	t.Run("search ignores scope", func(t *testing.T) {
		uc, jobs, _, _ := newJobUsecase()
		want := domain.JobFilter{Title: "go", Skills: []string{"Go"}, Page: 1, Limit: 20}
		jobs.On("Find", mock.Anything, want).Return([]domain.Job{}, int64(0), nil)
		_, err := uc.SearchJobs(ctx, domain.JobFilter{Title: "go", Skills: []string{"Go", ""}, Scope: &domain.JobScope{CompanyID: "x"}})
		require.NoError(t, err)
	})

	t.Run("get rejects malformed id before lookup", func(t *testing.T) {
		uc, jobs, _, _ := newJobUsecase()
		_, err := uc.GetJob(ctx, "123")
		assertAppError(t, err, http.StatusBadRequest)
		jobs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}
