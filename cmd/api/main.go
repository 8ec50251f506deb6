// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/acadmix/server/internal/admin"
	"github.com/acadmix/server/internal/auth"
	"github.com/acadmix/server/internal/config"
	"github.com/acadmix/server/internal/core"
	"github.com/acadmix/server/internal/course"
	"github.com/acadmix/server/internal/health"
	"github.com/acadmix/server/internal/institute"
	"github.com/acadmix/server/internal/middleware"
	"github.com/acadmix/server/internal/notify"
	"github.com/acadmix/server/internal/result"
	"github.com/acadmix/server/internal/server"
	"github.com/acadmix/server/internal/student"
	"github.com/acadmix/server/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)
	core.SetDevMode(!cfg.IsProduction())

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}

	mailer := notify.NewMailer(cfg.Mail)
	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := user.NewRepository(db)
	userSvc := user.NewService(userRepo, tokens, mailer, cfg.Security, cfg.SuperAdmin, logger)
	userHandler := user.NewHandler(userSvc, validate)

	authSvc := auth.NewService(userSvc, tokens, mailer, cfg.Security, logger)
	authHandler := auth.NewHandler(authSvc, validate)

	instituteSvc := institute.NewService(institute.NewRepository(db))
	instituteHandler := institute.NewHandler(instituteSvc, validate)

	courseSvc := course.NewService(course.NewRepository(db))
	courseHandler := course.NewHandler(courseSvc, validate)

	studentSvc := student.NewService(student.NewRepository(db), userRepo, cfg.Security)
	studentHandler := student.NewHandler(studentSvc, validate)

	resultSvc := result.NewService(result.NewRepository(db))
	resultHandler := result.NewHandler(resultSvc, validate)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DB:         db.DB,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	if err := userSvc.EnsureSuperAdmin(ctx); err != nil {
		return err
	}

	sweeper := user.NewSweeper(userRepo, cfg.Sweeper, logger)
	if cfg.Sweeper.Enabled {
		sweeper.Start(ctx)
	}

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(tokens)
	superAdminOnly := middleware.RequireRole(user.RoleSuperAdmin)
	adminRoles := []string{user.RoleAdmin, user.RoleSuperAdmin}

	router.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authenticator))
		r.Mount("/user", userHandler.Routes(authenticator))
		r.Mount("/institute", instituteHandler.Routes(authenticator, adminRoles...))
		r.Mount("/course", courseHandler.Routes(authenticator, adminRoles...))
		r.Mount("/student", studentHandler.Routes(authenticator, adminRoles...))
		r.Mount("/result", resultHandler.Routes(authenticator, adminRoles...))
		adminHandler.RegisterRoutes(r, authenticator, superAdminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if cfg.Sweeper.Enabled {
		sweeper.Wait()
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
