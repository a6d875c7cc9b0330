package domain

import (
	"context"
	"strings"
	"time"
)

const DefaultJobType = "Full-time"

// JobCompany is the company snapshot copied onto a job when it is posted.
type JobCompany struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type Job struct {
	ID           string     `json:"_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements"`
	Location     string     `json:"location"`
	Skills       []string   `json:"skills"`
	Type         string     `json:"type"`
	CompanyID    string     `json:"companyId"`
	Company      JobCompany `json:"company"`
	PostedBy     string     `json:"postedBy"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt,omitempty"`
}

type JobInput struct {
	Title        string
	Description  string
	Requirements string
	Location     string
	Skills       []string
	Type         string
	CompanyID    string
	CompanyName  string
	CompanyLogo  string
}

// JobUpdate is the edit whitelist; nil fields are left unchanged.
type JobUpdate struct {
	Title        *string
	Description  *string
	Requirements *string
	Location     *string
	Skills       *[]string
	Type         *string
	Company      *JobCompany
	CompanyID    *string
}

// JobScope restricts a query to one employer: by company when CompanyID is
// set, otherwise by creator.
type JobScope struct {
	CompanyID string
	PostedBy  string
}

type JobFilter struct {
	Scope    *JobScope
	Query    string
	Title    string
	Location string
	Type     string
	Skill    string
	Skills   []string
	SortBy   string
	SortAsc  bool
	Page     int
	Limit    int
}

var SortableJobFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"title":     true,
	"location":  true,
	"type":      true,
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	Find(ctx context.Context, filter JobFilter) ([]Job, int64, error)
	Update(ctx context.Context, id string, update JobUpdate) (*Job, error)
	Delete(ctx context.Context, id string) error
}

type JobUsecase interface {
	ListJobs(ctx context.Context, page, limit int) (*PaginatedResult[Job], error)
	SearchJobs(ctx context.Context, filter JobFilter) (*PaginatedResult[Job], error)
	GetJob(ctx context.Context, id string) (*Job, error)
	CreateJob(ctx context.Context, requester Requester, in JobInput) (*Job, error)
	ListEmployerJobs(ctx context.Context, requester Requester, filter JobFilter) (*PaginatedResult[Job], error)
	UpdateJob(ctx context.Context, requester Requester, id string, update JobUpdate) (*Job, error)
	DeleteJob(ctx context.Context, requester Requester, id string) error
}

// NormalizeSkills trims entries, drops empties and removes case-insensitive
// duplicates, keeping the first spelling.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// SplitSkills parses a comma separated skills list.
func SplitSkills(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NormalizeSkills(strings.Split(s, ","))
}
