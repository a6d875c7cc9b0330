package domain

import (
	"context"
	"io"
	"time"
)

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

const (
	ReviewStatusShortlisted    = "shortlisted"
	ReviewStatusUnderReview    = "under_review"
	ReviewStatusRejectedReview = "rejected_review"
	ReviewStatusNone           = "none"
)

// No transition constraints: any status may follow any other.
func IsValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

func IsValidReviewStatus(s string) bool {
	switch s {
	case ReviewStatusShortlisted, ReviewStatusUnderReview, ReviewStatusRejectedReview, ReviewStatusNone:
		return true
	}
	return false
}

// Application.JobID is always the hex form of the job id, whichever way the
// reference was stored.
type Application struct {
	ID           string    `json:"_id"`
	JobID        string    `json:"job"`
	ApplicantID  string    `json:"applicant"`
	ResumeURL    string    `json:"resumeUrl"`
	AppliedAt    time.Time `json:"appliedAt"`
	Status       string    `json:"status"`
	ReviewStatus string    `json:"reviewStatus,omitempty"`
	// ApplicantName is present on some older documents.
	ApplicantName string `json:"applicantName,omitempty"`
}

type ApplicationWithJob struct {
	Application
	JobDetails *Job `json:"jobDetails"`
}

type ApplicationWithApplicant struct {
	Application
	ApplicantDetails *User `json:"applicantDetails"`
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	Exists(ctx context.Context, jobID, applicantID string) (bool, error)
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
	ListByJobs(ctx context.Context, jobIDs []string) ([]Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]Application, error)
	CountByJob(ctx context.Context, jobID string) (int64, error)
	CountByStatusForJobs(ctx context.Context, jobIDs []string) (map[string]int64, error)
	CountByStatusForApplicant(ctx context.Context, applicantID string) (map[string]int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateReviewStatus(ctx context.Context, id, reviewStatus string) error
	DeleteByJobID(ctx context.Context, jobID string) (int64, error)
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, requester Requester, jobID, resumeURL string) (*Application, error)
	ListMine(ctx context.Context, requester Requester) ([]ApplicationWithJob, error)
	ListForJob(ctx context.Context, requester Requester, jobID string) ([]ApplicationWithApplicant, error)
	CountForJob(ctx context.Context, requester Requester, jobID string) (int64, error)
	ListEmployerJobs(ctx context.Context, requester Requester) ([]Job, error)
	ListEmployerApplications(ctx context.Context, requester Requester) ([]Application, error)
	UpdateStatus(ctx context.Context, requester Requester, appID, status string) error
	UpdateReviewStatus(ctx context.Context, requester Requester, appID, reviewStatus string) error
}

// ArchiveEntry is one resume file inside a job's resume archive.
type ArchiveEntry struct {
	Name string
	Ref  string
}

type ResumeArchive struct {
	FileName string
	Entries  []ArchiveEntry
}

// ExportFile is a rendered applicant export.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

type ApplicantExportUsecase interface {
	PrepareResumeArchive(ctx context.Context, requester Requester, jobID string) (*ResumeArchive, error)
	WriteResumeArchive(ctx context.Context, archive *ResumeArchive, w io.Writer) error
	ExportApplicants(ctx context.Context, requester Requester, jobID, format string) (*ExportFile, error)
}
