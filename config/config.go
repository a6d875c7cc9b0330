package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	// MongoDB
	MongoURI      string
	MongoDatabase string
	// Bearer tokens
	JWTSecret string
	JWTExpiry time.Duration
	// Comma separated list of browser origins allowed by CORS
	FrontendURL string
	// Blob storage: "local" or "s3"
	StorageProvider    string
	UploadDir          string // served as /uploads
	UserUploadDir      string // served as /user-uploads
	MaxUploadBytes     int64
	MaxImageBytes      int64
	DefaultCompanyLogo string
	// clamd address for malware scanning; empty disables it
	ClamAVAddress string
	ClamAVTimeout time.Duration
	// S3 / S3-compatible storage
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	// Redis (optional; rate limits fall back to memory without it)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitLoginThreshold  int
	FailedLoginMaxAttempts   int
	FailedLoginBlockMinutes  int
	UploadLimitPerMinute     int
	UploadLimitPerDay        int
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "5000"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "jobPlatform"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", 24*time.Hour),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		StorageProvider:    strings.ToLower(getEnv("STORAGE_PROVIDER", "local")),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		UserUploadDir:      getEnv("USER_UPLOAD_DIR", "public/uploads"),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 5<<20)),
		MaxImageBytes:      int64(getEnvInt("MAX_IMAGE_BYTES", 2<<20)),
		DefaultCompanyLogo: getEnv("DEFAULT_COMPANY_LOGO", "/uploads/default.png"),
		ClamAVAddress:      getEnv("CLAMAV_ADDRESS", ""),
		ClamAVTimeout:      getEnvDuration("CLAMAV_TIMEOUT", 30*time.Second),

		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
		UploadLimitPerMinute:     getEnvInt("UPLOAD_LIMIT_PER_MINUTE", 10),
		UploadLimitPerDay:        getEnvInt("UPLOAD_LIMIT_PER_DAY", 50),
	}

	if cfg.MongoURI == "" {
		log.Println("WARNING: MONGO_URI is missing. Application will fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Tokens cannot be issued or verified.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// FrontendOrigins splits FrontendURL on commas.
func (c *Config) FrontendOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings such as "24h" or "90m".
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
