package api

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopgrid/platform/internal/api/handler"
	"github.com/shopgrid/platform/internal/api/middleware"
	"github.com/shopgrid/platform/internal/core/domain"
	"github.com/shopgrid/platform/internal/core/ports"
	infrahttp "github.com/shopgrid/platform/internal/infrastructure/http"
	"github.com/shopgrid/platform/internal/infrastructure/http/handlers"
)

// Deps are shared by every backend router.
type Deps struct {
	Log      zerolog.Logger
	Verifier ports.TokenVerifier
	Health   *handlers.HealthHandler
}

func newBase(d Deps) *echo.Echo {
	return infrahttp.NewRouter(infrahttp.RouterOptions{
		Log:          d.Log,
		Health:       d.Health,
		ErrorHandler: NewHTTPErrorHandler(d.Log),
		Validator:    handler.NewValidator(),
	})
}

// NewAuthRouter builds the auth service's router.
func NewAuthRouter(d Deps, svc ports.AuthService) *echo.Echo {
	e := newBase(d)
	h := handler.NewAuthHandler(svc)

	g := e.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/validate", h.Validate)
	g.GET("/profile", h.Profile, middleware.Auth(d.Verifier))

	return e
}

// NewUserRouter builds the user service's router. Every route requires a
// valid token; creating profiles is reserved for admins.
func NewUserRouter(d Deps, svc ports.ProfileService) *echo.Echo {
	e := newBase(d)
	h := handler.NewUserHandler(svc)

	g := e.Group("/users", middleware.Auth(d.Verifier))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, middleware.RBAC(domain.RoleSubAdmin, domain.RoleSuperAdmin))

	return e
}

// NewShopRouter builds the shop service's router. Reads are public.
func NewShopRouter(d Deps, svc ports.ShopService) *echo.Echo {
	e := newBase(d)
	h := handler.NewShopHandler(svc)
	auth := middleware.Auth(d.Verifier)

	g := e.Group("/shops")
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.GET("/owner/my-shops", h.MyShops, auth)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, auth)
	g.PATCH("/:id", h.Update, auth)
	g.DELETE("/:id", h.Delete, auth)

	return e
}
