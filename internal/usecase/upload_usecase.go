package usecase

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/logger"
	"job-marketplace-api/pkg/security"
	"job-marketplace-api/pkg/security/antivirus"
	"job-marketplace-api/pkg/storage"
)

type uploadPolicy struct {
	folder     string
	extensions []string
	maxBytes   int64
	// resize images so neither side exceeds this; 0 stores the file as is
	maxDimension int
}

type uploadUsecase struct {
	files    domain.FileStorage
	scanner  antivirus.Scanner
	policies map[domain.UploadKind]uploadPolicy
}

// NewUploadUsecase wires the per-kind upload rules. maxUpload applies to
// documents, maxImage to profile images and logos. A nil scanner disables
// malware scanning.
func NewUploadUsecase(files domain.FileStorage, scanner antivirus.Scanner, maxUpload, maxImage int64) domain.UploadUsecase {
	return &uploadUsecase{
		files:   files,
		scanner: scanner,
		policies: map[domain.UploadKind]uploadPolicy{
			domain.UploadProfileImage: {storage.PrefixUserUploads + "/profile-images", security.ImageExtensions, maxImage, 800},
			domain.UploadCertificate:  {storage.PrefixUserUploads + "/certificates", security.CertificateExtensions, maxUpload, 0},
			domain.UploadMarksSheet:   {storage.PrefixUserUploads + "/marks", security.CertificateExtensions, maxUpload, 0},
			domain.UploadResume:       {storage.PrefixUploads + "/resumes", security.ResumeExtensions, maxUpload, 0},
			domain.UploadCompanyLogo:  {storage.PrefixUploads + "/company-logos", security.ImageExtensions, maxImage, 512},
		},
	}
}

func (u *uploadUsecase) Store(ctx context.Context, in domain.UploadInput) (string, error) {
	policy, ok := u.policies[in.Kind]
	if !ok {
		return "", apperror.BadRequest("Unknown upload type")
	}
	if len(in.Data) == 0 {
		return "", apperror.BadRequest("No file uploaded")
	}
	if policy.maxBytes > 0 && int64(len(in.Data)) > policy.maxBytes {
		return "", apperror.BadRequest(fmt.Sprintf("File too large. Maximum size is %d MB", policy.maxBytes>>20))
	}

	result := security.ValidateFile(in.FileName, in.Data, policy.extensions)
	if !result.Valid {
		return "", apperror.BadRequest("Invalid file: " + result.Error)
	}

	if err := u.scan(ctx, in); err != nil {
		return "", err
	}

	data := in.Data
	contentType := result.DetectedMIME
	filename := in.FileName
	if policy.maxDimension > 0 {
		compressed, err := storage.CompressImage(data, policy.maxDimension, 85)
		if err != nil {
			return "", apperror.BadRequest("Invalid image file")
		}
		data = compressed
		contentType = "image/jpeg"
		filename = strings.TrimSuffix(filename, path.Ext(filename)) + ".jpg"
	}

	ref, err := u.files.Save(ctx, policy.folder, storage.ObjectName(in.OwnerID, filename), data, contentType)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return ref, nil
}

// scan fails closed: a scanner error rejects the upload.
func (u *uploadUsecase) scan(ctx context.Context, in domain.UploadInput) error {
	if u.scanner == nil {
		return nil
	}
	result, err := u.scanner.Scan(ctx, in.Data)
	if err != nil {
		logger.Log.Error("malware scan failed", "scanner", u.scanner.Name(), "error", err)
		return apperror.New(http.StatusServiceUnavailable, "File scanning is unavailable. Please try again later.", err)
	}
	if result.Infected {
		logger.Log.Warn("upload rejected by malware scan", "owner_id", in.OwnerID, "kind", in.Kind, "threat", result.Threat)
		return apperror.BadRequest("File rejected by malware scan")
	}
	return nil
}
