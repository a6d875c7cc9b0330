package middleware

import (
	"strings"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the bearer token to a freshly loaded user on every
// request and stores the requester in the context.
func AuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			abortWithError(c, apperror.Unauthorized("Not authorized, no token"))
			return
		}

		identity, err := authUC.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		user := identity.User
		c.Set(string(domain.KeyRequester), user.Requester())
		c.Set(string(domain.KeyUser), user)
		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserRole), user.Role)

		c.Next()
	}
}

// CurrentRequester returns the requester stored by AuthMiddleware, or the
// zero Requester on unauthenticated routes.
func CurrentRequester(c *gin.Context) domain.Requester {
	v, _ := c.Get(string(domain.KeyRequester))
	r, _ := v.(domain.Requester)
	return r
}

var roleDenied = map[string]string{
	domain.RoleEmployer:  "Access denied. Employers only.",
	domain.RoleJobseeker: "Access denied. Jobseekers only.",
}

// RequireRole rejects requesters whose role is not listed with 403.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(string(domain.KeyUserRole))
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		msg := "Access denied"
		if len(roles) == 1 && roleDenied[roles[0]] != "" {
			msg = roleDenied[roles[0]]
		}
		abortWithError(c, apperror.Forbidden(msg))
	}
}

// ValidateObjectID rejects the request with 400 when a named route param is
// present but not a 24-character hex id.
func ValidateObjectID(params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range params {
			if v := c.Param(p); v != "" && !domain.IsObjectID(v) {
				abortWithError(c, apperror.BadRequest("Invalid ID format"))
				return
			}
		}
		c.Next()
	}
}
