// Command user runs the profile service and the consumer that materializes
// profiles from user.create events.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

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

const consumerGroup = "user-service"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "user:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx, config.UserPort)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Service: "user", Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	if err != nil {
		return err
	}

	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.UserURL})
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, postgres.UserMigrations, log); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	profiles := service.NewProfileService(postgres.NewProfileRepository(pool), cfg.BcryptCost, log)

	consumer := queue.NewConsumer(rdb, queue.ConsumerConfig{
		Stream:   cfg.Queue.Stream,
		Group:    consumerGroup,
		Consumer: consumerName(),
		Workers:  cfg.Queue.Workers,
	}, profiles, redisdb.NewDedupChecker(rdb, consumerGroup), logger.Component("consumer"))

	health := handlers.NewHealthHandler("user", handlers.PostgresCheck(pool), handlers.RedisCheck(rdb))
	e := api.NewUserRouter(api.Deps{Log: log, Verifier: tokens, Health: health}, profiles)
	infrahttp.MountMetrics(e, "user")

	log.Info().Strs("checks", health.Names()).Str("stream", cfg.Queue.Stream).Msg("user service starting")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return consumer.Run(gctx) })
	g.Go(func() error { return infrahttp.Serve(gctx, e, cfg.Addr(), log) })
	return g.Wait()
}

// consumerName is unique per process so replicas share the group without
// stealing each other's pending entries.
func consumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "user"
	}
	return host + "-" + uuid.NewString()[:8]
}
