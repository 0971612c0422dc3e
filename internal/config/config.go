package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuthConfig holds token verification settings. PrimarySecret and
// SecondarySecret are the HS256 signing secrets tried in order; IssuerURL is
// the external auth authority, also used for remote fallback verification.
type AuthConfig struct {
	PrimarySecret    string
	SecondarySecret  string
	IssuerURL        string
	ServiceKey       string
	Leeway           time.Duration
	MaxTokenAge      time.Duration
	IdentityCacheTTL time.Duration

	MaxFailedAttempts   int
	FailedWindow        time.Duration
	MaxFallbackAttempts int
	FallbackWindow      time.Duration
}

// CacheConfig selects the result cache backend. With an empty RedisURL the
// in-memory backend is used.
type CacheConfig struct {
	RedisURL   string
	DefaultTTL time.Duration
}

// UploadConfig bounds file uploads.
type UploadConfig struct {
	MaxFileSize int64
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	Env            string
	AllowedOrigins []string
	Database       DatabaseConfig
	MinIO          MinIOConfig
	Auth           AuthConfig
	Cache          CacheConfig
	Upload         UploadConfig
}

// Development reports whether the app runs in development mode, in which
// error responses may carry internal detail.
func (c *AppConfig) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:8080"),
		Port:           getEnv("PORT", "8080"), // default only for non-sensitive value
		Env:            getEnv("APP_ENV", "development"),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "data-room-files"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			PrimarySecret:       getEnv("AUTH_JWT_SECRET", ""),
			SecondarySecret:     getEnv("AUTH_JWT_SECRET_SECONDARY", ""),
			IssuerURL:           getEnv("AUTH_ISSUER_URL", ""),
			ServiceKey:          getEnv("AUTH_SERVICE_KEY", ""),
			Leeway:              getEnvDuration("AUTH_LEEWAY", time.Minute),
			MaxTokenAge:         getEnvDuration("AUTH_MAX_TOKEN_AGE", 24*time.Hour),
			IdentityCacheTTL:    getEnvDuration("AUTH_IDENTITY_CACHE_TTL", 5*time.Minute),
			MaxFailedAttempts:   getEnvInt("AUTH_MAX_FAILED_ATTEMPTS", 10),
			FailedWindow:        getEnvDuration("AUTH_FAILED_WINDOW", 5*time.Minute),
			MaxFallbackAttempts: getEnvInt("AUTH_MAX_FALLBACK_ATTEMPTS", 10),
			FallbackWindow:      getEnvDuration("AUTH_FALLBACK_WINDOW", time.Minute),
		},
		Cache: CacheConfig{
			RedisURL:   getEnv("REDIS_URL", ""),
			DefaultTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		Upload: UploadConfig{
			MaxFileSize: int64(getEnvInt("MAX_FILE_SIZE", 4718592)), // 4.5MB
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
