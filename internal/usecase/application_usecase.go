package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/logger"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	userRepo        domain.UserRepository
}

func NewApplicationUsecase(applicationRepo domain.ApplicationRepository, jobRepo domain.JobRepository, userRepo domain.UserRepository) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		userRepo:        userRepo,
	}
}

func (u *applicationUsecase) Apply(ctx context.Context, requester domain.Requester, jobID, resumeURL string) (*domain.Application, error) {
	if !requester.IsJobseeker() {
		return nil, apperror.Forbidden("Only jobseekers can apply for jobs")
	}
	if !domain.IsObjectID(jobID) {
		return nil, apperror.BadRequest("Invalid job ID")
	}
	resumeURL = strings.TrimSpace(resumeURL)
	if resumeURL == "" {
		return nil, apperror.BadRequest("Resume URL is required")
	}

	job, err := loadJob(ctx, u.jobRepo, jobID)
	if err != nil {
		return nil, err
	}

	exists, err := u.applicationRepo.Exists(ctx, job.ID, requester.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.BadRequest("You have already applied for this job")
	}

	app := &domain.Application{
		JobID:       job.ID,
		ApplicantID: requester.UserID,
		ResumeURL:   resumeURL,
		AppliedAt:   time.Now().UTC(),
		Status:      domain.ApplicationStatusPending,
	}
	if err := u.applicationRepo.Create(ctx, app); err != nil {
		return nil, apperror.Internal(err)
	}
	return app, nil
}

// ListMine attaches each application's job; JobDetails is nil when the job
// no longer exists.
func (u *applicationUsecase) ListMine(ctx context.Context, requester domain.Requester) ([]domain.ApplicationWithJob, error) {
	apps, err := u.applicationRepo.ListByApplicant(ctx, requester.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	jobs := map[string]*domain.Job{}
	out := make([]domain.ApplicationWithJob, 0, len(apps))
	for _, app := range apps {
		job, seen := jobs[app.JobID]
		if !seen {
			job, err = u.jobRepo.GetByID(ctx, app.JobID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.Internal(err)
			}
			jobs[app.JobID] = job
		}
		out = append(out, domain.ApplicationWithJob{Application: app, JobDetails: job})
	}
	return out, nil
}

func (u *applicationUsecase) ListForJob(ctx context.Context, requester domain.Requester, jobID string) ([]domain.ApplicationWithApplicant, error) {
	if err := requireEmployer(requester); err != nil {
		return nil, err
	}
	job, err := ownedJob(ctx, u.jobRepo, requester, jobID)
	if err != nil {
		return nil, err
	}

	apps, err := u.applicationRepo.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	out := make([]domain.ApplicationWithApplicant, 0, len(apps))
	for _, app := range apps {
		applicant, err := u.userRepo.GetByID(ctx, app.ApplicantID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		out = append(out, domain.ApplicationWithApplicant{Application: app, ApplicantDetails: applicant})
	}
	return out, nil
}

func (u *applicationUsecase) CountForJob(ctx context.Context, requester domain.Requester, jobID string) (int64, error) {
	if err := requireEmployer(requester); err != nil {
		return 0, err
	}
	job, err := ownedJob(ctx, u.jobRepo, requester, jobID)
	if err != nil {
		return 0, err
	}
	n, err := u.applicationRepo.CountByJob(ctx, job.ID)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return n, nil
}

func (u *applicationUsecase) ListEmployerJobs(ctx context.Context, requester domain.Requester) ([]domain.Job, error) {
	if err := requireEmployer(requester); err != nil {
		return nil, err
	}
	scope := requester.Scope()
	jobs, _, err := u.jobRepo.Find(ctx, domain.JobFilter{Scope: &scope})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

func (u *applicationUsecase) ListEmployerApplications(ctx context.Context, requester domain.Requester) ([]domain.Application, error) {
	jobs, err := u.ListEmployerJobs(ctx, requester)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	apps, err := u.applicationRepo.ListByJobs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

// authorizeApplication runs the shared check chain for application
// mutations: id shape, application, parent job, ownership.
func (u *applicationUsecase) authorizeApplication(ctx context.Context, requester domain.Requester, appID string) (*domain.Application, error) {
	if err := requireEmployer(requester); err != nil {
		return nil, err
	}
	if !domain.IsObjectID(appID) {
		return nil, apperror.BadRequest("Invalid application ID")
	}

	app, err := u.applicationRepo.GetByID(ctx, appID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Application not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	job, err := u.jobRepo.GetByID(ctx, app.JobID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Job not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if !domain.CanManageJob(requester, job) {
		return nil, apperror.Forbidden("You are not authorized to manage this application")
	}
	return app, nil
}

func (u *applicationUsecase) UpdateStatus(ctx context.Context, requester domain.Requester, appID, status string) error {
	app, err := u.authorizeApplication(ctx, requester, appID)
	if err != nil {
		return err
	}
	if !domain.IsValidApplicationStatus(status) {
		return apperror.BadRequest("Invalid status. Must be pending, accepted or rejected")
	}
	if err := u.applicationRepo.UpdateStatus(ctx, app.ID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Application not found")
		}
		return apperror.Internal(err)
	}
	logger.Log.Info("application status updated", "application_id", app.ID, "status", status, "user_id", requester.UserID)
	return nil
}

func (u *applicationUsecase) UpdateReviewStatus(ctx context.Context, requester domain.Requester, appID, reviewStatus string) error {
	app, err := u.authorizeApplication(ctx, requester, appID)
	if err != nil {
		return err
	}
	if !domain.IsValidReviewStatus(reviewStatus) {
		return apperror.BadRequest("Invalid review status. Must be shortlisted, under_review, rejected_review or none")
	}
	if err := u.applicationRepo.UpdateReviewStatus(ctx, app.ID, reviewStatus); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Application not found")
		}
		return apperror.Internal(err)
	}
	return nil
}
