package domain

import "context"

type DashboardSummary struct {
	Role              string           `json:"role"`
	Jobs              *int64           `json:"jobs,omitempty"`
	TotalApplications int64            `json:"totalApplications"`
	ByStatus          map[string]int64 `json:"byStatus"`
}

type DashboardUsecase interface {
	Summary(ctx context.Context, requester Requester) (*DashboardSummary, error)
}
