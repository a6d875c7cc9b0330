package domain

import (
	"context"
	"io"
)

type UploadKind string

const (
	UploadProfileImage UploadKind = "profile"
	UploadCertificate  UploadKind = "certificate"
	UploadResume       UploadKind = "resume"
	UploadCompanyLogo  UploadKind = "logo"
	UploadMarksSheet   UploadKind = "marks"
)

type UploadInput struct {
	Kind     UploadKind
	OwnerID  string
	FileName string
	Data     []byte
}

// FileStorage persists uploaded blobs and hands back a root-relative
// reference such as /uploads/resumes/<name>.
type FileStorage interface {
	Save(ctx context.Context, folder, name string, data []byte, contentType string) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

type UploadUsecase interface {
	Store(ctx context.Context, in UploadInput) (string, error)
}
