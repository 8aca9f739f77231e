package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
)

// MountMetrics instruments e with the Prometheus HTTP middleware and serves
// the default registry at /metrics. Call once per process: the middleware
// registers its collectors globally.
func MountMetrics(e *echo.Echo, subsystem string) {
	e.Use(echoprometheus.NewMiddleware(subsystem))
	e.GET("/metrics", echoprometheus.NewHandler())
}
