package middleware

import (
	"errors"
	"net/http"

	"job-marketplace-api/internal/delivery/http/response"
	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "An unexpected error occurred. Please try again later."

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			renderError(c, c.Errors.Last().Err)
		}
	}
}

// renderError writes an AppError with its own code and message. Anything
// else is logged and answered with a generic 500.
func renderError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			logger.Log.Error("request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"request_id", c.GetString(RequestIDKey),
				"error", appErr.Unwrap(),
			)
			response.Error(c, appErr.Code, internalErrorMessage, nil)
			return
		}
		response.Error(c, appErr.Code, appErr.Message, nil)
		return
	}

	logger.Log.Error("unhandled error",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"request_id", c.GetString(RequestIDKey),
		"error", err,
	)
	response.Error(c, http.StatusInternalServerError, internalErrorMessage, nil)
}

// abortWithError renders err and stops the handler chain.
func abortWithError(c *gin.Context, err error) {
	renderError(c, err)
	c.Abort()
}
