package domain

import (
	"context"
	"time"
)

// Company is keyed by the human-chosen CompanyID, not the database id.
type Company struct {
	ID          string    `json:"_id,omitempty"`
	CompanyID   string    `json:"companyId"`
	CompanyName string    `json:"companyName"`
	Logo        string    `json:"logo"`
	Address     string    `json:"address"`
	Industry    string    `json:"industry"`
	Website     string    `json:"website"`
	Description string    `json:"description,omitempty"`
	Size        string    `json:"size,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// CompanyUpdate lists the fields an employer may change; nil means unchanged.
type CompanyUpdate struct {
	CompanyName *string `json:"companyName"`
	Address     *string `json:"address"`
	Industry    *string `json:"industry"`
	Website     *string `json:"website"`
	Logo        *string `json:"logo"`
	Description *string `json:"description"`
	Size        *string `json:"size"`
}

type CompanyRepository interface {
	Create(ctx context.Context, company *Company) error
	GetByCompanyID(ctx context.Context, companyID string) (*Company, error)
	Update(ctx context.Context, companyID string, update CompanyUpdate) (*Company, error)
	Delete(ctx context.Context, companyID string) error
}

type CompanyUsecase interface {
	Verify(ctx context.Context, companyID string) (*Company, error)
	Create(ctx context.Context, requester Requester, company *Company) (*Company, error)
	UpdateProfile(ctx context.Context, requester Requester, update CompanyUpdate) (*Company, error)
	SetLogo(ctx context.Context, requester Requester, companyID, logoRef string) (*Company, error)
}
