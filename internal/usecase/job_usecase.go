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

const (
	defaultListLimit   = 10
	defaultSearchLimit = 20
)

type jobUsecase struct {
	jobRepo         domain.JobRepository
	companyRepo     domain.CompanyRepository
	applicationRepo domain.ApplicationRepository
	defaultLogo     string
}

func NewJobUsecase(jobRepo domain.JobRepository, companyRepo domain.CompanyRepository, applicationRepo domain.ApplicationRepository, defaultLogo string) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:         jobRepo,
		companyRepo:     companyRepo,
		applicationRepo: applicationRepo,
		defaultLogo:     defaultLogo,
	}
}

func (u *jobUsecase) find(ctx context.Context, filter domain.JobFilter) (*domain.PaginatedResult[domain.Job], error) {
	jobs, total, err := u.jobRepo.Find(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(jobs, total, filter.Page, filter.Limit), nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, page, limit int) (*domain.PaginatedResult[domain.Job], error) {
	page, limit = domain.NormalizePage(page, limit, defaultListLimit)
	return u.find(ctx, domain.JobFilter{Page: page, Limit: limit})
}

func (u *jobUsecase) SearchJobs(ctx context.Context, filter domain.JobFilter) (*domain.PaginatedResult[domain.Job], error) {
	filter.Scope = nil
	filter.Skills = domain.NormalizeSkills(filter.Skills)
	filter.Page, filter.Limit = domain.NormalizePage(filter.Page, filter.Limit, defaultSearchLimit)
	return u.find(ctx, filter)
}

func (u *jobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	return loadJob(ctx, u.jobRepo, id)
}

func (u *jobUsecase) CreateJob(ctx context.Context, requester domain.Requester, in domain.JobInput) (*domain.Job, error) {
	if !requester.IsEmployer() {
		return nil, apperror.Forbidden("Only employers can post jobs")
	}
	if requester.CompanyID == "" {
		return nil, apperror.BadRequest("Your account is not linked to a company")
	}
	if in.CompanyID = strings.TrimSpace(in.CompanyID); in.CompanyID != "" && in.CompanyID != requester.CompanyID {
		return nil, apperror.BadRequest("Company ID does not match your company")
	}

	company, err := u.companyRepo.GetByCompanyID(ctx, requester.CompanyID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.BadRequest("Company not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, apperror.BadRequest("Title and description are required")
	}

	jobType := strings.TrimSpace(in.Type)
	if jobType == "" {
		jobType = domain.DefaultJobType
	}

	snapshot := domain.JobCompany{Name: company.CompanyName, Logo: company.Logo}
	if snapshot.Name == "" {
		snapshot.Name = strings.TrimSpace(in.CompanyName)
	}
	if snapshot.Logo == "" {
		snapshot.Logo = strings.TrimSpace(in.CompanyLogo)
	}
	if snapshot.Logo == "" {
		snapshot.Logo = u.defaultLogo
	}

	now := time.Now().UTC()
	job := &domain.Job{
		Title:        title,
		Description:  description,
		Requirements: strings.TrimSpace(in.Requirements),
		Location:     strings.TrimSpace(in.Location),
		Skills:       domain.NormalizeSkills(in.Skills),
		Type:         jobType,
		CompanyID:    requester.CompanyID,
		Company:      snapshot,
		PostedBy:     requester.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}
	return job, nil
}

func (u *jobUsecase) ListEmployerJobs(ctx context.Context, requester domain.Requester, filter domain.JobFilter) (*domain.PaginatedResult[domain.Job], error) {
	if err := requireEmployer(requester); err != nil {
		return nil, err
	}

	scope := requester.Scope()
	filter.Scope = &scope

	switch filter.SortBy {
	case "newest":
		filter.SortBy, filter.SortAsc = "createdAt", false
	case "oldest":
		filter.SortBy, filter.SortAsc = "createdAt", true
	}

	def := defaultListLimit
	if filter.Query != "" || filter.Type != "" || filter.Skill != "" || filter.Location != "" || filter.SortBy != "" {
		def = defaultSearchLimit
	}
	filter.Page, filter.Limit = domain.NormalizePage(filter.Page, filter.Limit, def)
	return u.find(ctx, filter)
}

func (u *jobUsecase) UpdateJob(ctx context.Context, requester domain.Requester, id string, update domain.JobUpdate) (*domain.Job, error) {
	if err := requireEmployer(requester); err != nil {
		return nil, err
	}
	if _, err := ownedJob(ctx, u.jobRepo, requester, id); err != nil {
		return nil, err
	}

	for _, field := range []*string{update.Title, update.Description, update.Requirements, update.Location, update.Type, update.CompanyID} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	if (update.Title != nil && *update.Title == "") || (update.Description != nil && *update.Description == "") {
		return nil, apperror.BadRequest("Title and description cannot be empty")
	}
	if update.Type != nil && *update.Type == "" {
		t := domain.DefaultJobType
		update.Type = &t
	}
	if update.Skills != nil {
		skills := domain.NormalizeSkills(*update.Skills)
		update.Skills = &skills
	}

	job, err := u.jobRepo.Update(ctx, id, update)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Job not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return job, nil
}

// DeleteJob removes the job and then every application that references it.
func (u *jobUsecase) DeleteJob(ctx context.Context, requester domain.Requester, id string) error {
	if err := requireEmployer(requester); err != nil {
		return err
	}
	job, err := ownedJob(ctx, u.jobRepo, requester, id)
	if err != nil {
		return err
	}

	if err := u.jobRepo.Delete(ctx, job.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return apperror.Internal(err)
	}

	removed, err := u.applicationRepo.DeleteByJobID(ctx, job.ID)
	if err != nil {
		return apperror.Internal(err)
	}
	logger.Log.Info("job deleted", "job_id", job.ID, "user_id", requester.UserID, "applications_removed", removed)
	return nil
}
