package gateway

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/shopgrid/platform/internal/api"
	"github.com/shopgrid/platform/internal/api/middleware"
	"github.com/shopgrid/platform/internal/core/ports"
	infrahttp "github.com/shopgrid/platform/internal/infrastructure/http"
	"github.com/shopgrid/platform/internal/infrastructure/http/handlers"
)

// Upstreams are the three backends behind the gateway.
type Upstreams struct {
	Auth Upstream
	User Upstream
	Shop Upstream
}

type Options struct {
	Log         zerolog.Logger
	Verifier    ports.TokenVerifier
	Health      *handlers.HealthHandler
	Proxy       *Proxy
	Upstreams   Upstreams
	CORSOrigins []string
}

// NewRouter builds the gateway's public route table.
func NewRouter(o Options) *echo.Echo {
	e := infrahttp.NewRouter(infrahttp.RouterOptions{
		Log:          o.Log,
		Health:       o.Health,
		ErrorHandler: api.NewHTTPErrorHandler(o.Log),
	})
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     o.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	gate := middleware.Auth(o.Verifier)
	toAuth := o.Proxy.To(o.Upstreams.Auth)
	toUser := o.Proxy.To(o.Upstreams.User)
	toShop := o.Proxy.To(o.Upstreams.Shop)

	// --- Auth ---
	auth := e.Group("/auth")
	auth.POST("/register", toAuth)
	auth.POST("/login", toAuth)
	auth.POST("/validate", toAuth)
	auth.GET("/profile", toAuth, gate)

	// --- Users ---
	users := e.Group("/users", gate)
	users.GET("", toUser)
	users.GET("/:id", toUser)
	users.POST("", toUser)

	// --- Shops ---
	shops := e.Group("/shops")
	shops.GET("", toShop)
	shops.GET("/search", toShop)
	shops.GET("/owner/my-shops", toShop, gate)
	shops.GET("/:id", toShop)
	shops.POST("", toShop, gate)
	shops.PATCH("/:id", toShop, gate)
	shops.DELETE("/:id", toShop, gate)

	// --- Docs ---
	e.GET("/api/docs/*", echoSwagger.WrapHandler)

	return e
}
