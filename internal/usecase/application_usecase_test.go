package usecase_test

import (
	"errors"
	"net/http"
	"testing"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newApplicationUsecase() (domain.ApplicationUsecase, *MockApplicationRepo, *MockJobRepo, *MockUserRepo) {
	apps := new(MockApplicationRepo)
	jobs := new(MockJobRepo)
	users := new(MockUserRepo)
	return usecase.NewApplicationUsecase(apps, jobs, users), apps, jobs, users
}

func TestApply(t *testing.T) {
	t.Run("employer cannot apply", func(t *testing.T) {
		uc, _, _, _ := newApplicationUsecase()
		_, err := uc.Apply(ctx, employer, jobID, "/uploads/resumes/cv.pdf")
		assertAppError(t, err, http.StatusForbidden)
	})

	t.Run("invalid job id", func(t *testing.T) {
		uc, _, jobs, _ := newApplicationUsecase()
		_, err := uc.Apply(ctx, jobseeker, "abc", "/uploads/resumes/cv.pdf")
		assertAppError(t, err, http.StatusBadRequest)
		jobs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("resume required", func(t *testing.T) {
		uc, _, _, _ := newApplicationUsecase()
		_, err := uc.Apply(ctx, jobseeker, jobID, "  ")
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("job missing", func(t *testing.T) {
		uc, _, jobs, _ := newApplicationUsecase()
		jobs.On("GetByID", mock.Anything, jobID).Return(nil, domain.ErrNotFound)
		_, err := uc.Apply(ctx, jobseeker, jobID, "/uploads/resumes/cv.pdf")
		assertAppError(t, err, http.StatusNotFound)
	})

	t.Run("duplicate", func(t *testing.T) {
		uc, apps, jobs, _ := newApplicationUsecase()
		jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID}, nil)
		apps.On("Exists", mock.Anything, jobID, seekerID).Return(true, nil)
		_, err := uc.Apply(ctx, jobseeker, jobID, "/uploads/resumes/cv.pdf")
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("created pending", func(t *testing.T) {
		uc, apps, jobs, _ := newApplicationUsecase()
		jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID}, nil)
		apps.On("Exists", mock.Anything, jobID, seekerID).Return(false, nil)
		apps.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).Return(nil)

		app, err := uc.Apply(ctx, jobseeker, jobID, "/uploads/resumes/cv.pdf")
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusPending, app.Status)
		assert.Equal(t, jobID, app.JobID)
		assert.Equal(t, seekerID, app.ApplicantID)
		assert.False(t, app.AppliedAt.IsZero())
	})
}

func TestUpdateStatusCheckOrder(t *testing.T) {
	ownJob := &domain.Job{ID: jobID, CompanyID: "acme"}
	app := &domain.Application{ID: appID, JobID: jobID, Status: domain.ApplicationStatusPending}

	t.Run("jobseeker forbidden", func(t *testing.T) {
		uc, _, _, _ := newApplicationUsecase()
		assertAppError(t, uc.UpdateStatus(ctx, jobseeker, appID, "accepted"), http.StatusForbidden)
	})

	t.Run("malformed id before any lookup", func(t *testing.T) {
		uc, apps, _, _ := newApplicationUsecase()
		assertAppError(t, uc.UpdateStatus(ctx, employer, "nope", "bogus"), http.StatusBadRequest)
		apps.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("application missing", func(t *testing.T) {
		uc, apps, _, _ := newApplicationUsecase()
		apps.On("GetByID", mock.Anything, appID).Return(nil, domain.ErrNotFound)
		assertAppError(t, uc.UpdateStatus(ctx, employer, appID, "bogus"), http.StatusNotFound)
	})

	t.Run("parent job missing", func(t *testing.T) {
		uc, apps, jobs, _ := newApplicationUsecase()
		apps.On("GetByID", mock.Anything, appID).Return(app, nil)
		jobs.On("GetByID", mock.Anything, jobID).Return(nil, domain.ErrNotFound)
		assertAppError(t, uc.UpdateStatus(ctx, employer, appID, "bogus"), http.StatusNotFound)
	})

	t.Run("ownership checked before status value", func(t *testing.T) {
		uc, apps, jobs, _ := newApplicationUsecase()
		apps.On("GetByID", mock.Anything, appID).Return(app, nil)
		jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, CompanyID: "globex"}, nil)
		assertAppError(t, uc.UpdateStatus(ctx, employer, appID, "bogus"), http.StatusForbidden)
	})

	t.Run("invalid status", func(t *testing.T) {
		uc, apps, jobs, _ := newApplicationUsecase()
		apps.On("GetByID", mock.Anything, appID).Return(app, nil)
		jobs.On("GetByID", mock.Anything, jobID).Return(ownJob, nil)
		assertAppError(t, uc.UpdateStatus(ctx, employer, appID, "hired"), http.StatusBadRequest)
		apps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("status can move back to pending", func(t *testing.T) {
		uc, apps, jobs, _ := newApplicationUsecase()
		accepted := *app
		accepted.Status = domain.ApplicationStatusAccepted
		apps.On("GetByID", mock.Anything, appID).Return(&accepted, nil)
		jobs.On("GetByID", mock.Anything, jobID).Return(ownJob, nil)
		apps.On("UpdateStatus", mock.Anything, appID, "pending").Return(nil)
		require.NoError(t, uc.UpdateStatus(ctx, employer, appID, "pending"))
	})

	t.Run("review status validated separately", func(t *testing.T) {
		uc, apps, jobs, _ := newApplicationUsecase()
		apps.On("GetByID", mock.Anything, appID).Return(app, nil)
		jobs.On("GetByID", mock.Anything, jobID).Return(ownJob, nil)
		apps.On("UpdateReviewStatus", mock.Anything, appID, "shortlisted").Return(nil)

		assertAppError(t, uc.UpdateReviewStatus(ctx, employer, appID, "accepted"), http.StatusBadRequest)
		require.NoError(t, uc.UpdateReviewStatus(ctx, employer, appID, "shortlisted"))
	})
}

func TestListMineTreatsMissingJobAsNull(t *testing.T) {
	uc, apps, jobs, _ := newApplicationUsecase()
	goneJob := "64b7f0c2a1b2c3d4e5f60799"
	apps.On("ListByApplicant", mock.Anything, seekerID).Return([]domain.Application{
		{ID: appID, JobID: jobID},
		{ID: "64b7f0c2a1b2c3d4e5f60721", JobID: goneJob},
		{ID: "64b7f0c2a1b2c3d4e5f60722", JobID: jobID},
	}, nil)
	jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, Title: "Dev"}, nil).Once()
	jobs.On("GetByID", mock.Anything, goneJob).Return(nil, domain.ErrNotFound).Once()

	out, err := uc.ListMine(ctx, jobseeker)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Dev", out[0].JobDetails.Title)
	assert.Nil(t, out[1].JobDetails)
	assert.Equal(t, "Dev", out[2].JobDetails.Title)
	jobs.AssertExpectations(t)
}

func TestListForJob(t *testing.T) {
	uc, apps, jobs, users := newApplicationUsecase()
	jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, PostedBy: ownerID}, nil)
	apps.On("ListByJob", mock.Anything, jobID).Return([]domain.Application{{ID: appID, JobID: jobID, ApplicantID: seekerID}}, nil)
	users.On("GetByID", mock.Anything, seekerID).Return(&domain.User{ID: seekerID, Name: "Jane", PasswordHash: "secret"}, nil)

	out, err := uc.ListForJob(ctx, employer, jobID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Jane", out[0].ApplicantDetails.Name)

	t.Run("database failure surfaces as internal", func(t *testing.T) {
		uc, apps, jobs, _ := newApplicationUsecase()
		jobs.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, CompanyID: "acme"}, nil)
		apps.On("ListByJob", mock.Anything, jobID).Return(nil, errors.New("connection reset"))
		_, err := uc.ListForJob(ctx, employer, jobID)
		assertAppError(t, err, http.StatusInternalServerError)
	})
}

func TestEmployerApplicationsAcrossJobs(t *testing.T) {
	uc, apps, jobs, _ := newApplicationUsecase()
	scope := domain.JobScope{CompanyID: "acme"}
	jobs.On("Find", mock.Anything, domain.JobFilter{Scope: &scope}).Return([]domain.Job{{ID: jobID}, {ID: "64b7f0c2a1b2c3d4e5f60719"}}, int64(2), nil)
	apps.On("ListByJobs", mock.Anything, []string{jobID, "64b7f0c2a1b2c3d4e5f60719"}).Return([]domain.Application{{ID: appID}}, nil)

	out, err := uc.ListEmployerApplications(ctx, employer)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
