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

// AuthConfig holds token signing settings and the single admin account.
// ADMIN_PASSWORD_HASH wins over ADMIN_PASSWORD when both are set.
type AuthConfig struct {
	JWTSecret         string
	JWTIssuer         string
	TokenTTLMinutes   int
	AdminEmail        string
	AdminPassword     string
	AdminPasswordHash string
	BcryptCost        int
}

// RateLimitConfig configures the fixed-window ingress limiter.
// When RedisAddr is empty counters are kept in process memory.
type RateLimitConfig struct {
	Max           int
	WindowSec     int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// UploadConfig bounds multipart uploads and download links.
type UploadConfig struct {
	MaxFiles        int
	BodyLimitMB     int
	SignedURLTTLSec int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppEnv      string
	AppHost     string
	Port        string
	Timezone    string
	LogLevel    string
	ActivityCap int
	CORSOrigins []string
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Upload      UploadConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppEnv:      getEnv("APP_ENV", "production"),
		AppHost:     getEnv("APP_HOST", "localhost:5000"),
		Port:        getEnv("PORT", "5000"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ActivityCap: getEnvInt("ACTIVITY_CAP", 100),
		CORSOrigins: getEnvList("CORS_ORIGINS", nil),
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
			Bucket:    getEnv("MINIO_BUCKET", "company-files"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			JWTIssuer:         getEnv("JWT_ISSUER", "docportal"),
			TokenTTLMinutes:   getEnvInt("JWT_TTL_MINUTES", 720),
			AdminEmail:        getEnv("ADMIN_EMAIL", ""),
			AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			BcryptCost:        getEnvInt("BCRYPT_COST", 10),
		},
		RateLimit: RateLimitConfig{
			Max:           getEnvInt("RATE_LIMIT_MAX", 200),
			WindowSec:     getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Upload: UploadConfig{
			MaxFiles:        getEnvInt("UPLOAD_MAX_FILES", 20),
			BodyLimitMB:     getEnvInt("UPLOAD_BODY_LIMIT_MB", 50),
			SignedURLTTLSec: getEnvInt("SIGNED_URL_TTL_SEC", 900),
		},
	}
}

// Location resolves Timezone, falling back to UTC for unknown zone names.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TokenTTL returns the bearer token lifetime.
func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// Window returns the limiter window.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSec) * time.Second
}

// SignedURLTTL returns the lifetime of presigned download links.
func (c UploadConfig) SignedURLTTL() time.Duration {
	return time.Duration(c.SignedURLTTLSec) * time.Second
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

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
