package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"docportal/internal/auth"
	"docportal/internal/config"
	"docportal/internal/database"
	"docportal/internal/database/migration"
	handlers "docportal/internal/http/handler"
	"docportal/internal/http/middleware"
	"docportal/internal/logger"
	"docportal/internal/otel"
	"docportal/internal/ratelimit"
	"docportal/internal/repository/postgres"
	"docportal/internal/service"
	"docportal/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Document Portal API
// @version 1.0
// @description Multi-tenant document sharing between an admin and client companies.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(logger.Config{
		Env:      cfg.AppEnv,
		Level:    cfg.LogLevel,
		Location: cfg.Location(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	// PostgreSQL with pooling via database/sql; schema is created on first start.
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token configuration")
	}
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	admin := adminAccount(cfg.Auth, hasher, log)

	limiter := middleware.RateLimitConfig{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window()}
	if cfg.RateLimit.RedisAddr != "" {
		rs, err := ratelimit.NewRedis(ctx, cfg.RateLimit)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rs.Close()
		limiter.Storage = rs
		log.Info().Str("redis_addr", cfg.RateLimit.RedisAddr).Msg("rate limit counters shared via redis")
	}

	// Repositories and services
	companyRepo := postgres.NewCompanyPostgres(db)
	fileRepo := postgres.NewFilePostgres(db)

	activitySvc := service.NewActivityService(postgres.NewActivityPostgres(db), cfg.ActivityCap, log)
	deps := handlers.Deps{
		DB:        db,
		Auth:      service.NewAuthService(companyRepo, tokens, hasher, admin, activitySvc, log),
		Companies: service.NewCompanyService(companyRepo, fileRepo, objStore, hasher, activitySvc, log),
		Files: service.NewFileService(fileRepo, companyRepo, objStore, activitySvc, service.FileOptions{
			MaxFiles:     cfg.Upload.MaxFiles,
			SignedURLTTL: cfg.Upload.SignedURLTTL(),
		}, log),
		Notifications: service.NewNotificationService(postgres.NewNotificationPostgres(db), companyRepo, activitySvc, log),
		Requests:      service.NewRequestService(postgres.NewRequestPostgres(db), activitySvc),
		Activity:      activitySvc,
		RateLimit:     middleware.RateLimit(limiter),
	}

	app, err := newApp(cfg, deps, log, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build http app")
	}

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.AppEnv).Msg("server listening")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}

// adminAccount hashes ADMIN_PASSWORD at startup unless a bcrypt hash is configured.
func adminAccount(c config.AuthConfig, hasher *auth.Hasher, log zerolog.Logger) service.AdminAccount {
	acc := service.AdminAccount{Email: c.AdminEmail, PasswordHash: c.AdminPasswordHash}
	if acc.PasswordHash == "" && c.AdminPassword != "" {
		h, err := hasher.Hash(c.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to hash admin password")
		}
		acc.PasswordHash = h
	}
	if acc.Email == "" || acc.PasswordHash == "" {
		log.Warn().Msg("ADMIN_EMAIL or admin password not set, admin login disabled")
	}
	return acc
}
