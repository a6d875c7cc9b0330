package usecase

import (
	"context"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
)

type dashboardUsecase struct {
	jobRepo         domain.JobRepository
	applicationRepo domain.ApplicationRepository
}

func NewDashboardUsecase(jobRepo domain.JobRepository, applicationRepo domain.ApplicationRepository) domain.DashboardUsecase {
	return &dashboardUsecase{jobRepo: jobRepo, applicationRepo: applicationRepo}
}

func (u *dashboardUsecase) Summary(ctx context.Context, requester domain.Requester) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{Role: requester.Role}

	var (
		counts map[string]int64
		err    error
	)
	switch {
	case requester.IsEmployer():
		scope := requester.Scope()
		jobs, total, ferr := u.jobRepo.Find(ctx, domain.JobFilter{Scope: &scope})
		if ferr != nil {
			return nil, apperror.Internal(ferr)
		}
		summary.Jobs = &total

		ids := make([]string, 0, len(jobs))
		for _, j := range jobs {
			ids = append(ids, j.ID)
		}
		counts, err = u.applicationRepo.CountByStatusForJobs(ctx, ids)
	case requester.IsJobseeker():
		counts, err = u.applicationRepo.CountByStatusForApplicant(ctx, requester.UserID)
	default:
		return nil, apperror.Forbidden("Unknown role")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	summary.ByStatus = counts
	for _, n := range counts {
		summary.TotalApplications += n
	}
	return summary, nil
}
