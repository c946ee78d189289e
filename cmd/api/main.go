// @title                       AI Tools Platform API
// @version                     1.0
// @description                 Authentication, role policy and tool catalog for the AI tools platform.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aitools/platform-api/docs"
	"github.com/aitools/platform-api/internal/api"
	"github.com/aitools/platform-api/internal/api/middleware"
	"github.com/aitools/platform-api/internal/core/service"
	"github.com/aitools/platform-api/internal/infrastructure/db/mongo"
	"github.com/aitools/platform-api/internal/infrastructure/db/redis"
	"github.com/aitools/platform-api/internal/infrastructure/http/handlers"
	"github.com/aitools/platform-api/internal/infrastructure/queue"
	"github.com/aitools/platform-api/internal/pkg/config"
	"github.com/aitools/platform-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "aitools-api",
	})

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// run returns only after every resource it opened has been released.
func run(cfg *config.Config) error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure mongodb indexes: %w", err)
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	// --- Repositories ---
	userRepo := mongo.NewUserRepository(db)
	tokenRepo := mongo.NewTokenRepository(db)
	eventRepo := mongo.NewAuthEventRepository(db)
	toolRepo := mongo.NewToolRepository(db)
	categoryRepo := mongo.NewCategoryRepository(db)
	sessionStore := redis.NewSessionStore(rdb, cfg.Auth.SessionTTL)

	audit := queue.NewAuditDispatcher(cfg.Auth.AuditWorkers, eventRepo, logger.Component("audit"))
	audit.Start(ctx)
	defer audit.Close()

	// --- Services ---
	authLog := logger.Component("auth")
	tokens := service.NewTokenIssuer(tokenRepo, userRepo, authLog)
	sessions := service.NewSessionManager(sessionStore)
	authService := service.NewAuthService(userRepo, tokens, sessions, audit, authLog)
	userService := service.NewUserService(userRepo, cfg.Auth.PasswordMinLen, logger.Component("users"))
	toolService := service.NewToolService(toolRepo, categoryRepo, logger.Component("catalog"))

	if err := userService.SeedOwner(ctx, cfg.Seed.OwnerEmail, cfg.Seed.OwnerPassword); err != nil {
		return err
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Auth:               authService,
		Users:              userService,
		Tools:              toolService,
		Cookie:             middleware.NewSessionCookie(cfg.Auth.SessionCookie, cfg.Auth.SessionSecret, cfg.Auth.CookieSecure),
		HomePath:           cfg.Auth.HomePath,
		LoginRatePerMinute: cfg.Auth.LoginRateLimit,
		LoginRateBurst:     cfg.Auth.LoginRateBurst,
		HealthChecks:       []handlers.DependencyCheck{handlers.MongoCheck(db), handlers.RedisCheck(rdb)},
		Logger:             logger.Component("http"),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
