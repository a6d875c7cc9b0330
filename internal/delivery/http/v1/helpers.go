package v1

import (
	"errors"
	"strconv"
	"strings"

	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindError turns a gin binding failure into a 400 with readable messages.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}
	return apperror.BadRequest("Invalid request body")
}

// queryInt parses an integer query param; missing or malformed values are 0.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
