package domain

import (
	"context"
	"time"
)

const (
	RoleJobseeker = "jobseeker"
	RoleEmployer  = "employer"
)

// Marks holds a jobseeker's academic results as entered.
type Marks struct {
	Tenth   *string `json:"tenth,omitempty"`
	Twelfth *string `json:"twelfth,omitempty"`
	Degree  *string `json:"degree,omitempty"`
}

type User struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"-"`
	Role         string            `json:"role"`
	CompanyID    string            `json:"companyId,omitempty"`
	CompanyName  string            `json:"companyName"`
	ProfileImage string            `json:"profileImage"`
	Bio          string            `json:"bio"`
	Marks        Marks             `json:"marks"`
	Certificates map[string]string `json:"certificates"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt,omitempty"`
}

// Requester builds the access-policy view of the user.
func (u *User) Requester() Requester {
	return Requester{UserID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
}

// UserUpdate carries the optional profile fields; nil means unchanged.
type UserUpdate struct {
	Name         *string
	Bio          *string
	ProfileImage *string
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*User, error)
	SetCompany(ctx context.Context, id, companyID, companyName string) error
	SetMarks(ctx context.Context, id string, marks Marks) (*User, error)
	SetCertificate(ctx context.Context, id, certType, ref string) (*User, error)
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	CompanyID   string
	CompanyName string
	Address     string
	Industry    string
	Website     string
}

type LoginInput struct {
	Email     string
	Password  string
	CompanyID string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Identity is what the auth middleware resolves from a bearer token.
type Identity struct {
	User    *User
	Company *Company
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, update UserUpdate) (*User, error)
}
