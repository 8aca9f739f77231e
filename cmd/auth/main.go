// Command auth runs the credential service: registration, login and token
// validation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopgrid/platform/internal/api"
	"github.com/shopgrid/platform/internal/core/service"
	"github.com/shopgrid/platform/internal/infrastructure/config"
	"github.com/shopgrid/platform/internal/infrastructure/db/postgres"
	redisdb "github.com/shopgrid/platform/internal/infrastructure/db/redis"
	infrahttp "github.com/shopgrid/platform/internal/infrastructure/http"
	"github.com/shopgrid/platform/internal/infrastructure/http/handlers"
	"github.com/shopgrid/platform/internal/infrastructure/queue"
	"github.com/shopgrid/platform/internal/infrastructure/token"
	"github.com/shopgrid/platform/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "auth:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx, config.AuthPort)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Service: "auth", Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	if err != nil {
		return err
	}

	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.AuthURL})
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, postgres.AuthMigrations, log); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	authService, err := service.NewAuthService(
		postgres.NewCredentialRepository(pool),
		tokens,
		queue.NewPublisher(rdb, cfg.Queue.Stream),
		cfg.BcryptCost,
		log,
	)
	if err != nil {
		return err
	}

	health := handlers.NewHealthHandler("auth", handlers.PostgresCheck(pool), handlers.RedisCheck(rdb))
	e := api.NewAuthRouter(api.Deps{Log: log, Verifier: tokens, Health: health}, authService)
	infrahttp.MountMetrics(e, "auth")

	log.Info().Strs("checks", health.Names()).Dur("token_ttl", tokens.TTL()).Msg("auth service starting")
	return infrahttp.Serve(ctx, e, cfg.Addr(), log)
}
