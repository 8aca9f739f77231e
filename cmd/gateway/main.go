// Command gateway is the public entry point in front of the auth, user and
// shop services.
//
//	@title						shopgrid API
//	@version					1.0
//	@description				Gateway for the shopgrid auth, user and shop services.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/shopgrid/platform/docs"
	"github.com/shopgrid/platform/internal/gateway"
	"github.com/shopgrid/platform/internal/infrastructure/config"
	infrahttp "github.com/shopgrid/platform/internal/infrastructure/http"
	"github.com/shopgrid/platform/internal/infrastructure/http/handlers"
	"github.com/shopgrid/platform/internal/infrastructure/token"
	"github.com/shopgrid/platform/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "gateway:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx, config.GatewayPort)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Service: "gateway", Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	if err != nil {
		return err
	}

	upstreams := gateway.Upstreams{
		Auth: gateway.Upstream{Name: "auth", BaseURL: cfg.Gateway.AuthURL},
		User: gateway.Upstream{Name: "user", BaseURL: cfg.Gateway.UserURL},
		Shop: gateway.Upstream{Name: "shop", BaseURL: cfg.Gateway.ShopURL},
	}
	probe := &http.Client{Timeout: cfg.Gateway.Timeout}
	health := handlers.NewHealthHandler("gateway",
		handlers.UpstreamCheck(upstreams.Auth.Name, upstreams.Auth.BaseURL, probe),
		handlers.UpstreamCheck(upstreams.User.Name, upstreams.User.BaseURL, probe),
		handlers.UpstreamCheck(upstreams.Shop.Name, upstreams.Shop.BaseURL, probe),
	)

	e := gateway.NewRouter(gateway.Options{
		Log:         log,
		Verifier:    tokens,
		Health:      health,
		Proxy:       gateway.NewProxy(cfg.Gateway.Timeout, logger.Component("proxy")),
		Upstreams:   upstreams,
		CORSOrigins: cfg.Gateway.CORSOrigins,
	})
	infrahttp.MountMetrics(e, "gateway")

	log.Info().
		Str("auth", cfg.Gateway.AuthURL).
		Str("user", cfg.Gateway.UserURL).
		Str("shop", cfg.Gateway.ShopURL).
		Msg("gateway starting")
	return infrahttp.Serve(ctx, e, cfg.Addr(), log)
}
