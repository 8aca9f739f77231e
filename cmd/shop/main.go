// Command shop runs the shop catalogue service backed by MongoDB.
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
	mongodb "github.com/shopgrid/platform/internal/infrastructure/db/mongo"
	infrahttp "github.com/shopgrid/platform/internal/infrastructure/http"
	"github.com/shopgrid/platform/internal/infrastructure/http/handlers"
	"github.com/shopgrid/platform/internal/infrastructure/token"
	"github.com/shopgrid/platform/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "shop:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx, config.ShopPort)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Service: "shop", Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	if err != nil {
		return err
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "shopgrid-shop"})
	if err != nil {
		return err
	}
	defer func() { _ = mongodb.Disconnect(client) }()

	repo := mongodb.NewShopRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}

	health := handlers.NewHealthHandler("shop", handlers.MongoCheck(db))
	e := api.NewShopRouter(api.Deps{Log: log, Verifier: tokens, Health: health}, service.NewShopService(repo, log))
	infrahttp.MountMetrics(e, "shop")

	log.Info().Strs("checks", health.Names()).Str("database", cfg.Mongo.Database).Msg("shop service starting")
	return infrahttp.Serve(ctx, e, cfg.Addr(), log)
}
