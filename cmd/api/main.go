package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-marketplace-api/config"
	_ "job-marketplace-api/docs" // Important for Swagger
	v1 "job-marketplace-api/internal/delivery/http/v1"
	"job-marketplace-api/internal/domain"
	"job-marketplace-api/internal/repository/mongodb"
	"job-marketplace-api/internal/usecase"
	"job-marketplace-api/pkg/auth"
	"job-marketplace-api/pkg/database"
	"job-marketplace-api/pkg/logger"
	"job-marketplace-api/pkg/redis"
	"job-marketplace-api/pkg/security"
	"job-marketplace-api/pkg/security/antivirus"
	"job-marketplace-api/pkg/storage"

	"github.com/gin-gonic/gin"
)

// @title           Job Marketplace API
// @version         1.0
// @description     Job postings, applications and company profiles for jobseekers and employers.
// @host            localhost:5000
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	logger.Log.Info("Starting job marketplace API", "port", cfg.Port)

	// 3. Setup Database
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, db, err := database.NewMongoConnection(ctx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		if errors.Is(err, mongodb.ErrUniqueIndex) {
			cancel()
			logger.Log.Error("Unique indexes unavailable, run cmd/migrate after removing duplicates", "error", err)
			_ = client.Disconnect(context.Background())
			os.Exit(1)
		}
		logger.Log.Warn("Failed to ensure indexes", "error", err)
	}
	cancel()

	// 4. Setup Redis (optional)
	var cachePinger usecase.Pinger
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	} else {
		cachePinger = redis.HealthCheck
		defer redis.Close()
	}

	// 5. Setup Storage
	files, err := newFileStorage(cfg)
	if err != nil {
		logger.Log.Error("Failed to set up file storage", "provider", cfg.StorageProvider, "error", err)
		os.Exit(1)
	}

	// 6. Setup Repositories
	userRepo := mongodb.NewUserRepository(db)
	companyRepo := mongodb.NewCompanyRepository(db)
	jobRepo := mongodb.NewJobRepository(db)
	applicationRepo := mongodb.NewApplicationRepository(db)

	// 7. Setup UseCases
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	authUC := usecase.NewAuthUsecase(userRepo, companyRepo, tokens, cfg.DefaultCompanyLogo)
	profileUC := usecase.NewProfileUsecase(userRepo)
	companyUC := usecase.NewCompanyUsecase(companyRepo, userRepo, cfg.DefaultCompanyLogo)
	jobUC := usecase.NewJobUsecase(jobRepo, companyRepo, applicationRepo, cfg.DefaultCompanyLogo)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, userRepo)
	exportUC := usecase.NewApplicantExportUsecase(applicationRepo, jobRepo, userRepo, files)
	jobseekerUC := usecase.NewJobseekerUsecase(userRepo)
	uploadUC := usecase.NewUploadUsecase(files, newScanner(cfg), cfg.MaxUploadBytes, cfg.MaxImageBytes)
	dashboardUC := usecase.NewDashboardUsecase(jobRepo, applicationRepo)
	healthUC := usecase.NewHealthUsecase(func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}, cachePinger)

	// 8. Setup Abuse Protection and Auditing
	loginTracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
	})
	uploadLimiter := security.NewUploadLimiter(cfg.UploadLimitPerMinute, cfg.UploadLimitPerDay)

	environment := "development"
	if cfg.IsProduction() {
		environment = "production"
	}
	audit := security.NewAuditLogger("job-marketplace-api", environment)
	audit.SetPersistFunc(mongodb.NewSecurityEventRepository(db).Persist)
	defer func() {
		_ = audit.Sync()
	}()

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		ProfileUC:     profileUC,
		CompanyUC:     companyUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		ExportUC:      exportUC,
		JobseekerUC:   jobseekerUC,
		UploadUC:      uploadUC,
		DashboardUC:   dashboardUC,
		HealthUC:      healthUC,
		Files:         files,
		LoginTracker:  loginTracker,
		UploadLimiter: uploadLimiter,
		Audit:         audit,
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	if err := audit.Close(ctx); err != nil {
		logger.Log.Warn("Security events left unpersisted", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func newFileStorage(cfg *config.Config) (domain.FileStorage, error) {
	if cfg.StorageProvider == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s3Store, err := storage.NewS3Storage(ctx, storage.S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	}

	local := storage.NewLocalStorage(map[string]string{
		storage.PrefixUploads:     cfg.UploadDir,
		storage.PrefixUserUploads: cfg.UserUploadDir,
	})
	for prefix, dir := range local.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		logger.Log.Info("Serving local uploads", "prefix", prefix, "dir", dir)
	}
	return local, nil
}

// newScanner returns nil when no clamd address is configured. An unreachable
// clamd is only logged here; uploads fail closed until it answers.
func newScanner(cfg *config.Config) antivirus.Scanner {
	if cfg.ClamAVAddress == "" {
		logger.Log.Warn("CLAMAV_ADDRESS not configured, uploads are not scanned for malware")
		return nil
	}
	scanner := antivirus.NewClamAVScanner(cfg.ClamAVAddress, cfg.ClamAVTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := scanner.Ping(ctx); err != nil {
		logger.Log.Warn("clamd not reachable", "address", cfg.ClamAVAddress, "error", err)
	}
	return scanner
}
