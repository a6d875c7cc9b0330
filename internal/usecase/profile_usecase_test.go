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

func TestProfileUpdateTrims(t *testing.T) {
	users := new(MockUserRepo)
	uc := usecase.NewProfileUsecase(users)

	users.On("Update", mock.Anything, seekerID, mock.MatchedBy(func(u domain.UserUpdate) bool {
		return u.Name != nil && *u.Name == "Jane" && u.Bio != nil && *u.Bio == "Gopher"
	})).Return(&domain.User{ID: seekerID, Name: "Jane", Bio: "Gopher"}, nil)

	name, bio := "  Jane ", " Gopher  "
	user, err := uc.UpdateProfile(ctx, seekerID, domain.UserUpdate{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)

	empty := " "
	_, err = uc.UpdateProfile(ctx, seekerID, domain.UserUpdate{Name: &empty})
	assertAppError(t, err, http.StatusBadRequest)
}

func TestProfileMissingUser(t *testing.T) {
	users := new(MockUserRepo)
	users.On("GetByID", mock.Anything, seekerID).Return(nil, domain.ErrNotFound)
	_, err := usecase.NewProfileUsecase(users).GetProfile(ctx, seekerID)
	assertAppError(t, err, http.StatusNotFound)
}

func TestJobseekerUsecase(t *testing.T) {
	t.Run("employer cannot set marks", func(t *testing.T) {
		uc := usecase.NewJobseekerUsecase(new(MockUserRepo))
		v := "90"
		_, err := uc.UpdateMarks(ctx, employer, domain.Marks{Tenth: &v})
		assertAppError(t, err, http.StatusForbidden)
	})

	t.Run("marks need at least one value", func(t *testing.T) {
		uc := usecase.NewJobseekerUsecase(new(MockUserRepo))
		blank := " "
		_, err := uc.UpdateMarks(ctx, jobseeker, domain.Marks{Degree: &blank})
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("marks saved", func(t *testing.T) {
		users := new(MockUserRepo)
		v := "8.2 CGPA"
		users.On("SetMarks", mock.Anything, seekerID, domain.Marks{Degree: &v}).Return(&domain.User{ID: seekerID}, nil)
		_, err := usecase.NewJobseekerUsecase(users).UpdateMarks(ctx, jobseeker, domain.Marks{Degree: &v})
		require.NoError(t, err)
	})

	t.Run("certificate type defaults and is validated", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := usecase.NewJobseekerUsecase(users)
		users.On("SetCertificate", mock.Anything, seekerID, "other", "/user-uploads/certificates/c.pdf").Return(&domain.User{ID: seekerID}, nil)

		_, err := uc.SetCertificate(ctx, jobseeker, "", "/user-uploads/certificates/c.pdf")
		require.NoError(t, err)

		_, err = uc.SetCertificate(ctx, jobseeker, "password.hash", "/user-uploads/certificates/c.pdf")
		assertAppError(t, err, http.StatusBadRequest)
	})
}

func TestDashboardSummary(t *testing.T) {
	jobs := new(MockJobRepo)
	apps := new(MockApplicationRepo)
	uc := usecase.NewDashboardUsecase(jobs, apps)

	scope := domain.JobScope{CompanyID: "acme"}
	jobs.On("Find", mock.Anything, domain.JobFilter{Scope: &scope}).Return([]domain.Job{{ID: jobID}}, int64(1), nil)
	apps.On("CountByStatusForJobs", mock.Anything, []string{jobID}).Return(map[string]int64{"pending": 2, "accepted": 1, "rejected": 0}, nil)
	apps.On("CountByStatusForApplicant", mock.Anything, seekerID).Return(map[string]int64{"pending": 1}, nil)

	s, err := uc.Summary(ctx, employer)
	require.NoError(t, err)
	require.NotNil(t, s.Jobs)
	assert.Equal(t, int64(1), *s.Jobs)
	assert.Equal(t, int64(3), s.TotalApplications)

	s, err = uc.Summary(ctx, jobseeker)
	require.NoError(t, err)
	assert.Nil(t, s.Jobs)
	assert.Equal(t, int64(1), s.TotalApplications)
}
