package v1

import (
	"io"
	"net/http"

	"job-marketplace-api/internal/delivery/http/middleware"
	"job-marketplace-api/internal/delivery/http/response"
	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// uploader reads one multipart file and hands it to the upload use case.
// Reads are capped at maxBytes+1 so oversize files are still rejected by
// the use case without buffering them whole.
type uploader struct {
	uploadUC domain.UploadUsecase
	maxBytes int64
}

func (u uploader) store(c *gin.Context, field string, kind domain.UploadKind) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", apperror.BadRequest("No file uploaded")
	}

	src, err := header.Open()
	if err != nil {
		return "", apperror.BadRequest("Failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, u.maxBytes+1))
	if err != nil {
		return "", apperror.BadRequest("Failed to read uploaded file")
	}

	return u.uploadUC.Store(c.Request.Context(), domain.UploadInput{
		Kind:     kind,
		OwnerID:  middleware.CurrentRequester(c).UserID,
		FileName: header.Filename,
		Data:     data,
	})
}

type UploadHandler struct {
	uploader
}

type uploadResult struct {
	URL string `json:"url"`
}

func NewUploadHandler(protected *gin.RouterGroup, up uploader, quota gin.HandlerFunc) {
	handler := &UploadHandler{uploader: up}

	uploads := protected.Group("/upload", quota)
	{
		uploads.POST("/profile", handler.upload("profileImage", domain.UploadProfileImage, "Profile image uploaded"))
		uploads.POST("/certificate", handler.upload("file", domain.UploadCertificate, "Certificate uploaded"))
		uploads.POST("/resume", handler.upload("resume", domain.UploadResume, "Resume uploaded"))
		uploads.POST("/jobseeker/upload-certificate", handler.upload("file", domain.UploadCertificate, "Certificate uploaded"))
		uploads.POST("/jobseeker/upload-marks", handler.upload("file", domain.UploadMarksSheet, "Marks file uploaded"))
	}
}

// Upload godoc
// @Summary      Upload a file
// @Description  Stores a profile image (field profileImage), certificate or marks sheet (field file) or resume (field resume) and returns its path
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to upload"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /upload/resume [post]
// @Router       /upload/profile [post]
// @Router       /upload/certificate [post]
// @Router       /upload/jobseeker/upload-certificate [post]
// @Router       /upload/jobseeker/upload-marks [post]
// @Security     BearerAuth
func (h *UploadHandler) upload(field string, kind domain.UploadKind, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := h.store(c, field, kind)
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusCreated, message, uploadResult{URL: ref})
	}
}
