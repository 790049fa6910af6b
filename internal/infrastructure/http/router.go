package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/invoicer/invoicing-app/internal/core/ports"
	"github.com/invoicer/invoicing-app/internal/infrastructure/http/handlers"
)

// RegisterProbes mounts the operational endpoints on e. None of them require
// a session.
func RegisterProbes(e *echo.Echo, checks map[string]ports.Pinger) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandler())
}
