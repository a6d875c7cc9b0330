package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"job-marketplace-api/internal/delivery/http/middleware"
	"job-marketplace-api/internal/delivery/http/response"
	"job-marketplace-api/internal/domain"
	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/logger"
	"job-marketplace-api/pkg/security"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authUC    domain.AuthUsecase
	profileUC domain.ProfileUsecase
	logins    *security.LoginTracker
	audit     *security.AuditLogger
	uploader  uploader
}

func NewUserHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, profileUC domain.ProfileUsecase, logins *security.LoginTracker, audit *security.AuditLogger, up uploader, loginLimit, quota gin.HandlerFunc) {
	handler := &UserHandler{authUC: authUC, profileUC: profileUC, logins: logins, audit: audit, uploader: up}

	users := public.Group("/users")
	{
		users.POST("/register", loginLimit, handler.Register)
		users.POST("/login", loginLimit, handler.Login)
	}

	me := protected.Group("/users/profile")
	{
		me.GET("", handler.GetProfile)
		me.PUT("", handler.UpdateProfile)
		me.POST("/image", quota, handler.UploadProfileImage)
	}

	profile := protected.Group("/profile")
	{
		profile.GET("", handler.GetProfile)
		profile.PUT("", quota, handler.UpdateProfile)
	}
}

type RegisterRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"required,oneof=jobseeker employer"`
	CompanyID   string `json:"companyId" binding:"omitempty,company_id"`
	CompanyName string `json:"companyName" binding:"omitempty,max=120"`
	Address     string `json:"address"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
}

type LoginRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	CompanyID string `json:"companyId"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name" form:"name" binding:"omitempty,max=100"`
	Bio  *string `json:"bio" form:"bio" binding:"omitempty,max=2000"`
}

// Register godoc
// @Summary      Register a user
// @Description  Creates a jobseeker or employer account. Employers also create their company (companyId + companyName required).
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Registration details"
// @Success      201      {object}  response.Response{data=domain.AuthResult}
// @Failure      400      {object}  response.Response
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	result, err := h.authUC.Register(c.Request.Context(), domain.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		CompanyID:   req.CompanyID,
		CompanyName: req.CompanyName,
		Address:     req.Address,
		Industry:    req.Industry,
		Website:     req.Website,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Registered successfully", result)
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges email and password (plus companyId for employers) for a bearer token. Repeated failures lock the account temporarily.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=domain.AuthResult}
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	blocked, remaining, err := h.logins.IsBlocked(ctx, email)
	if err != nil {
		logger.Log.Warn("login tracker unavailable", "error", err)
	}
	if blocked {
		h.auditLogin(c, security.EventLoginBlocked, email, "too_many_failed_attempts")
		c.Header("Retry-After", strconv.Itoa(int(remaining.Seconds())+1))
		c.Error(apperror.TooManyRequests("Too many failed login attempts. Please try again later."))
		return
	}

	result, err := h.authUC.Login(ctx, domain.LoginInput{Email: email, Password: req.Password, CompanyID: req.CompanyID})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
			h.auditLogin(c, security.EventLoginFailed, email, "invalid_credentials")
			nowBlocked, trackErr := h.logins.RecordFailure(ctx, email, c.ClientIP())
			if trackErr != nil {
				logger.Log.Warn("failed to record login failure", "error", trackErr)
			}
			if nowBlocked {
				h.auditLogin(c, security.EventBlockCreated, email, "too_many_failed_attempts")
			}
		}
		c.Error(err)
		return
	}

	if err := h.logins.Reset(ctx, email); err != nil {
		logger.Log.Warn("failed to reset login failures", "error", err)
	}
	h.auditLogin(c, security.EventLoginSuccess, email, "")
	response.Success(c, http.StatusOK, "Login successful", result)
}

// GetProfile godoc
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profile [get]
// @Router       /users/profile [get]
// @Security     BearerAuth
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.profileUC.GetProfile(c.Request.Context(), middleware.CurrentRequester(c).UserID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile fetched", user)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Updates name and bio. Multipart requests may also carry a profileImage file.
// @Tags         profile
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Param        request  body      UpdateProfileRequest  false  "Profile fields"
// @Success      200      {object}  response.Response{data=domain.User}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /profile [put]
// @Router       /users/profile [put]
// @Security     BearerAuth
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	update := domain.UserUpdate{Name: req.Name, Bio: req.Bio}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if _, err := c.FormFile("profileImage"); err == nil {
			ref, err := h.uploader.store(c, "profileImage", domain.UploadProfileImage)
			if err != nil {
				c.Error(err)
				return
			}
			update.ProfileImage = &ref
		}
	}

	user, err := h.profileUC.UpdateProfile(c.Request.Context(), middleware.CurrentRequester(c).UserID, update)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", user)
}

// UploadProfileImage godoc
// @Summary      Upload profile image
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        profileImage  formData  file  true  "Image (jpg, png, webp)"
// @Success      200           {object}  response.Response{data=domain.User}
// @Failure      400           {object}  response.Response
// @Failure      401           {object}  response.Response
// @Router       /users/profile/image [post]
// @Security     BearerAuth
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	ref, err := h.uploader.store(c, "profileImage", domain.UploadProfileImage)
	if err != nil {
		c.Error(err)
		return
	}

	user, err := h.profileUC.UpdateProfile(c.Request.Context(), middleware.CurrentRequester(c).UserID, domain.UserUpdate{ProfileImage: &ref})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile image updated", user)
}

func (h *UserHandler) auditLogin(c *gin.Context, eventType security.EventType, email, reason string) {
	event := middleware.NewAuditEvent(c, eventType)
	event.SubjectType, event.SubjectValue = "email", email
	if reason != "" {
		event.Details = map[string]string{"reason": reason}
	}
	h.audit.Log(c.Request.Context(), event)
}
