package middleware

import (
	"strconv"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/logger"
	"job-marketplace-api/pkg/security"

	"github.com/gin-gonic/gin"
)

// UploadQuota applies the per-IP and per-user upload limits. It must run
// after AuthMiddleware so the user id is known.
func UploadQuota(limiter *security.UploadLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(string(domain.KeyUserID))
		allowed, retryAfter, err := limiter.AllowUpload(c.Request.Context(), c.ClientIP(), userID)
		if err != nil {
			logger.Log.Warn("upload quota check failed", "user_id", userID, "error", err)
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			abortWithError(c, apperror.TooManyRequests("Upload limit exceeded. Please try again later."))
			return
		}
		c.Next()
	}
}
