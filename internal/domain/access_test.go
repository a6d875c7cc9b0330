package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"job-marketplace-api/internal/domain"
)

func TestCanManageJob(t *testing.T) {
	companyJob := &domain.Job{CompanyID: "acme", PostedBy: "u1"}
	legacyJob := &domain.Job{PostedBy: "u1"}

	tests := []struct {
		name      string
		requester domain.Requester
		job       *domain.Job
		want      bool
	}{
		{"same company other poster", domain.Requester{UserID: "u2", Role: domain.RoleEmployer, CompanyID: "acme"}, companyJob, true},
		{"poster without company", domain.Requester{UserID: "u1", Role: domain.RoleEmployer}, companyJob, true},
		{"poster moved company", domain.Requester{UserID: "u1", Role: domain.RoleEmployer, CompanyID: "globex"}, companyJob, true},
		{"other company", domain.Requester{UserID: "u2", Role: domain.RoleEmployer, CompanyID: "globex"}, companyJob, false},
		{"legacy job poster", domain.Requester{UserID: "u1", Role: domain.RoleEmployer, CompanyID: "acme"}, legacyJob, true},
		{"legacy job company does not match empty", domain.Requester{UserID: "u2", Role: domain.RoleEmployer, CompanyID: "acme"}, legacyJob, false},
		{"both company ids empty", domain.Requester{UserID: "u2", Role: domain.RoleEmployer}, legacyJob, false},
		{"empty user id never matches empty poster", domain.Requester{}, &domain.Job{}, false},
		{"nil job", domain.Requester{UserID: "u1"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanManageJob(tt.requester, tt.job))
		})
	}
}

func TestRequesterScope(t *testing.T) {
	assert.Equal(t, domain.JobScope{CompanyID: "acme"}, domain.Requester{UserID: "u1", CompanyID: "acme"}.Scope())
	assert.Equal(t, domain.JobScope{PostedBy: "u1"}, domain.Requester{UserID: "u1"}.Scope())
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, limit, def int
		wantPage         int
		wantLimit        int
	}{
		{0, 0, 10, 1, 10},
		{-3, 0, 20, 1, 20},
		{2, 1, 10, 2, 5},
		{3, 500, 10, 3, 50},
		{1, 25, 10, 1, 25},
	}
	for _, tt := range tests {
		page, limit := domain.NormalizePage(tt.page, tt.limit, tt.def)
		assert.Equal(t, tt.wantPage, page)
		assert.Equal(t, tt.wantLimit, limit)
	}
}

func TestStatusEnums(t *testing.T) {
	for _, s := range []string{"pending", "accepted", "rejected"} {
		assert.True(t, domain.IsValidApplicationStatus(s), s)
	}
	assert.False(t, domain.IsValidApplicationStatus("hired"))
	assert.False(t, domain.IsValidApplicationStatus("Pending"))

	for _, s := range []string{"shortlisted", "under_review", "rejected_review", "none"} {
		assert.True(t, domain.IsValidReviewStatus(s), s)
	}
	assert.False(t, domain.IsValidReviewStatus("rejected"))
}

func TestNewPaginatedResult(t *testing.T) {
	res := domain.NewPaginatedResult[domain.Job](nil, 21, 2, 10)
	assert.NotNil(t, res.Data)
	assert.Equal(t, 3, res.TotalPages)
}
