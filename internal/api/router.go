package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/invoicer/invoicing-app/docs"
	"github.com/invoicer/invoicing-app/internal/api/handler"
	"github.com/invoicer/invoicing-app/internal/api/middleware"
	"github.com/invoicer/invoicing-app/internal/core/ports"
	infrahttp "github.com/invoicer/invoicing-app/internal/infrastructure/http"
)

// Dependencies are the use cases and probes the router exposes.
type Dependencies struct {
	Auth     ports.AuthService
	Session  ports.SessionReader
	Clients  ports.ClientService
	Invoices ports.InvoiceService
	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]ports.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("invoicer"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Session)
	companyHandler := handler.NewCompanyHandler(deps.Auth)
	clientHandler := handler.NewClientHandler(deps.Clients)
	invoiceHandler := handler.NewInvoiceHandler(deps.Invoices)

	requireSession := middleware.RequireSession(deps.Session)
	requireCompany := middleware.RequireCompany()

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/session", authHandler.Session)

	// --- Onboarding (session required) ---
	me := e.Group("/me", requireSession)
	me.GET("/company", companyHandler.Get)
	me.PUT("/company", companyHandler.Put)

	// --- Clients and invoices (session and company details required) ---
	clients := e.Group("/clients", requireSession, requireCompany)
	clients.GET("", clientHandler.List)
	clients.POST("", clientHandler.Create)
	clients.GET("/:id", clientHandler.Get)
	clients.PUT("/:id", clientHandler.Update)

	invoices := e.Group("/invoices", requireSession, requireCompany)
	invoices.GET("", invoiceHandler.List)
	invoices.POST("", invoiceHandler.Create)
	invoices.GET("/:id", invoiceHandler.Get)
	invoices.PUT("/:id", invoiceHandler.Update)

	// --- Probes, metrics and docs (no session required) ---
	infrahttp.RegisterProbes(e, deps.Checks)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
