package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	users map[string]*domain.User
}

func (f *fakeAuth) Register(context.Context, domain.RegisterInput) (*domain.AuthResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeAuth) Login(context.Context, domain.LoginInput) (*domain.AuthResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*domain.Identity, error) {
	if u, ok := f.users[token]; ok {
		return &domain.Identity{User: u}, nil
	}
	return nil, apperror.Unauthorized("Not authorized, token failed")
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func newProtectedRouter() *gin.Engine {
	auth := &fakeAuth{users: map[string]*domain.User{
		"employer-token":  {ID: "64b7f0c2a1b2c3d4e5f60730", Role: domain.RoleEmployer, CompanyID: "acme"},
		"jobseeker-token": {ID: "64b7f0c2a1b2c3d4e5f60740", Role: domain.RoleJobseeker},
	}}

	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	protected := r.Group("/api", AuthMiddleware(auth))
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, CurrentRequester(c))
	})
	protected.DELETE("/jobs/:id", RequireRole(domain.RoleEmployer), ValidateObjectID("id"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newProtectedRouter()

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decode(t, w)
		assert.False(t, env.Success)
		assert.Equal(t, "Not authorized, no token", env.Message)
		assert.NotEmpty(t, env.RequestID)
	})

	t.Run("not a bearer scheme", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/me", http.Header{"Authorization": {"Basic abc"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/me", bearer("forged"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Not authorized, token failed", decode(t, w).Message)
	})

	t.Run("requester stored", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/me", bearer("employer-token"))
		require.Equal(t, http.StatusOK, w.Code)
		var got domain.Requester
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, domain.Requester{UserID: "64b7f0c2a1b2c3d4e5f60730", Role: domain.RoleEmployer, CompanyID: "acme"}, got)
	})
}

func TestRoleGateRunsBeforeIDValidation(t *testing.T) {
	r := newProtectedRouter()

	w := serve(r, http.MethodDelete, "/api/jobs/not-an-id", bearer("jobseeker-token"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied. Employers only.", decode(t, w).Message)

	w = serve(r, http.MethodDelete, "/api/jobs/not-an-id", bearer("employer-token"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ID format", decode(t, w).Message)

	w = serve(r, http.MethodDelete, "/api/jobs/64b7f0c2a1b2c3d4e5f60718", bearer("employer-token"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) { c.Error(apperror.NotFound("Job not found")) })
	r.GET("/internal", func(c *gin.Context) { c.Error(apperror.Internal(errors.New("mongo: connection reset"))) })
	r.GET("/plain", func(c *gin.Context) { c.Error(errors.New("boom")) })

	w := serve(r, http.MethodGet, "/app", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Job not found", decode(t, w).Message)

	for _, path := range []string{"/internal", "/plain"} {
		w = serve(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, internalErrorMessage, decode(t, w).Message)
		assert.NotContains(t, w.Body.String(), "mongo")
	}
}

func TestRateLimitMiddlewareInMemory(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(DefaultRateLimitConfig(2, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", nil).Code)
	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://jobs.example.com/"}, false))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/", http.Header{"Origin": {"https://jobs.example.com"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://jobs.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodOptions, "/", http.Header{"Origin": {"http://localhost:5173"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, http.MethodGet, "/", http.Header{"Origin": {"https://evil.example"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/files", CrossOriginResources(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "same-origin", w.Header().Get("Cross-Origin-Resource-Policy"))

	id := "3f1c0f7e-8b1a-4e77-9a53-2f3a1f5d9e10"
	w = serve(r, http.MethodGet, "/files", http.Header{"X-Request-Id": {id}})
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "cross-origin", w.Header().Get("Cross-Origin-Resource-Policy"))
}
