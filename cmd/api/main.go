// @title        Task list API
// @version      1.0
// @description  Users, bearer-token auth, personal tasks and avatar upload.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tasklist/tasklist-api/internal/api"
	"github.com/tasklist/tasklist-api/internal/core/service"
	"github.com/tasklist/tasklist-api/internal/infrastructure/db/mongo"
	"github.com/tasklist/tasklist-api/internal/infrastructure/db/redis"
	"github.com/tasklist/tasklist-api/internal/infrastructure/http/handlers"
	"github.com/tasklist/tasklist-api/internal/infrastructure/queue"
	"github.com/tasklist/tasklist-api/internal/infrastructure/security"
	"github.com/tasklist/tasklist-api/internal/infrastructure/storage"
	"github.com/tasklist/tasklist-api/internal/pkg/config"
	"github.com/tasklist/tasklist-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "tasklist-api"})
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "tasklist-api",
	})

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		ClientName: cfg.Redis.ClientName,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	accounts := mongo.NewAccountRepository(db)
	tasks := mongo.NewTaskRepository(db)
	if err := accounts.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := tasks.EnsureIndexes(ctx); err != nil {
		return err
	}

	files, err := storage.NewLocalStore(cfg.Files.Dir)
	if err != nil {
		return err
	}

	// --- Security ---
	tokens, err := security.NewJWTService(security.JWTConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	}, logger.Component("tokens"))
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	throttle := redis.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)

	// --- Services ---
	cleanup := queue.NewDispatcher(cfg.Worker.CleanupWorkers, nil, logger.Component("cleanup"))
	authService := service.NewAuthService(accounts, hasher, tokens, throttle, logger.Component("auth"))
	userService := service.NewUserService(accounts, tasks, hasher, files, cleanup, cfg.Files.AvatarMaxBytes, logger.Component("users"))
	taskService := service.NewTaskService(tasks, logger.Component("tasks"))

	cleanup.SetReconciler(userService)
	cleanup.Start(ctx)
	if n, err := userService.SweepAvatars(ctx); err != nil {
		log.Warn().Err(err).Msg("avatar sweep failed")
	} else {
		log.Info().Int("files", n).Msg("avatar sweep queued")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Log:         logger.Component("http"),
		Auth:        authService,
		Users:       userService,
		Tasks:       taskService,
		AvatarLimit: cfg.Files.AvatarMaxBytes,
		FilesDir:    files.Root(),
		FilesPrefix: cfg.Files.Prefix,
		Checks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
