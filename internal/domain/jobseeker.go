package domain

import "context"

const DefaultCertificateType = "other"

type JobseekerUsecase interface {
	UpdateMarks(ctx context.Context, requester Requester, marks Marks) (*User, error)
	SetCertificate(ctx context.Context, requester Requester, certType, ref string) (*User, error)
	SetProfileImage(ctx context.Context, requester Requester, ref string) (*User, error)
}
