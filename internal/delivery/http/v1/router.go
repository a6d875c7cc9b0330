package v1

import (
	"net/http"
	"time"

	"job-marketplace-api/config"
	"job-marketplace-api/internal/delivery/http/middleware"
	"job-marketplace-api/internal/delivery/http/response"
	"job-marketplace-api/internal/domain"
	"job-marketplace-api/internal/usecase"
	"job-marketplace-api/pkg/security"
	"job-marketplace-api/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	ProfileUC     domain.ProfileUsecase
	CompanyUC     domain.CompanyUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	ExportUC      domain.ApplicantExportUsecase
	JobseekerUC   domain.JobseekerUsecase
	UploadUC      domain.UploadUsecase
	DashboardUC   domain.DashboardUsecase
	HealthUC      usecase.HealthUsecase
	Files         domain.FileStorage
	LoginTracker  *security.LoginTracker
	UploadLimiter *security.UploadLimiter
	Audit         *security.AuditLogger
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	cfg := deps.Config
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes + 1<<20

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendOrigins(), !cfg.IsProduction())) // CORS must be first
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessAudit(deps.Audit))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found", nil)
	})

	NewFileHandler(r, deps.Files)

	window := cfg.RateLimitWindow()
	if window <= 0 {
		window = time.Minute
	}
	api := r.Group("/api", middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	loginLimit := middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, window))
	quota := middleware.UploadQuota(deps.UploadLimiter)

	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	up := uploader{uploadUC: deps.UploadUC, maxBytes: cfg.MaxUploadBytes}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthUC))
	{
		NewUserHandler(api, protected, deps.AuthUC, deps.ProfileUC, deps.LoginTracker, deps.Audit, up, loginLimit, quota)
		NewJobHandler(api, protected, deps.JobUC)
		NewEmployerHandler(protected, deps.JobUC, deps.ApplicationUC, deps.ExportUC, deps.CompanyUC, deps.Audit)
		NewApplicationHandler(protected, deps.ApplicationUC)
		NewJobseekerHandler(protected, deps.JobseekerUC, deps.ApplicationUC, up, quota)
		NewCompanyHandler(api, protected, deps.CompanyUC, up, quota)
		NewUploadHandler(protected, up, quota)
		NewDashboardHandler(api, protected, deps.DashboardUC, deps.HealthUC)
	}

	return r
}
