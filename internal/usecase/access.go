package usecase

import (
	"context"
	"errors"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
)

// loadJob resolves a job id to the stored job, mapping a miss to 404. The
// repository lookup accepts both stored id representations.
func loadJob(ctx context.Context, jobs domain.JobRepository, jobID string) (*domain.Job, error) {
	if !domain.IsObjectID(jobID) {
		return nil, apperror.BadRequest("Invalid job ID")
	}
	job, err := jobs.GetByID(ctx, jobID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Job not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return job, nil
}

// ownedJob loads a job and applies the ownership rule. Role gating is the
// caller's job.
func ownedJob(ctx context.Context, jobs domain.JobRepository, requester domain.Requester, jobID string) (*domain.Job, error) {
	job, err := loadJob(ctx, jobs, jobID)
	if err != nil {
		return nil, err
	}
	if !domain.CanManageJob(requester, job) {
		return nil, apperror.Forbidden("You are not authorized to manage this job")
	}
	return job, nil
}

func requireEmployer(requester domain.Requester) error {
	if !requester.IsEmployer() {
		return apperror.Forbidden("Access denied. Employers only.")
	}
	return nil
}

func requireJobseeker(requester domain.Requester) error {
	if !requester.IsJobseeker() {
		return apperror.Forbidden("Access denied. Jobseekers only.")
	}
	return nil
}
