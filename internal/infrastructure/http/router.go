package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	apimw "github.com/shopgrid/platform/internal/api/middleware"
	"github.com/shopgrid/platform/internal/infrastructure/http/handlers"
)

// RouterOptions carries what every binary's base router needs.
type RouterOptions struct {
	Log          zerolog.Logger
	Health       *handlers.HealthHandler
	ErrorHandler echo.HTTPErrorHandler
	Validator    echo.Validator
}

// NewRouter builds an Echo instance with the shared middleware chain and the
// health probes. Service routes are registered on top by the caller.
func NewRouter(opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if opts.ErrorHandler != nil {
		e.HTTPErrorHandler = opts.ErrorHandler
	}
	if opts.Validator != nil {
		e.Validator = opts.Validator
	}

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(apimw.RequestLogger(opts.Log))

	// --- Health probes (no auth required) ---
	if opts.Health != nil {
		e.GET("/health", opts.Health.Liveness)
		e.GET("/health/ready", opts.Health.Readiness)
	}

	return e
}
