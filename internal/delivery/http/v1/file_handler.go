package v1

import (
	"errors"
	"mime"
	"net/http"
	"path"

	"job-marketplace-api/internal/delivery/http/middleware"
	"job-marketplace-api/internal/delivery/http/response"
	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/logger"
	"job-marketplace-api/pkg/storage"

	"github.com/gin-gonic/gin"
)

// FileHandler serves stored uploads by reference through the configured
// storage backend, so the same URLs work for disk and S3.
type FileHandler struct {
	files domain.FileStorage
}

// NewFileHandler mounts the public file routes. /company-logos is an alias
// of /uploads kept for older logo links.
func NewFileHandler(r *gin.Engine, files domain.FileStorage) {
	handler := &FileHandler{files: files}

	mounts := map[string]string{
		storage.PrefixUploads:     storage.PrefixUploads,
		"/company-logos":          storage.PrefixUploads,
		storage.PrefixUserUploads: storage.PrefixUserUploads,
	}
	for route, prefix := range mounts {
		r.GET(route+"/*filepath", middleware.CrossOriginResources(), handler.serve(prefix))
	}
}

func (h *FileHandler) serve(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := prefix + c.Param("filepath")

		rc, err := h.files.Open(c.Request.Context(), ref)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidRef) {
				response.Error(c, http.StatusNotFound, "File not found", nil)
				return
			}
			logger.Log.Error("failed to open stored file", "ref", ref, "error", err)
			response.Error(c, http.StatusInternalServerError, "Failed to read file", nil)
			return
		}
		defer rc.Close()

		contentType := mime.TypeByExtension(path.Ext(ref))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
	}
}
