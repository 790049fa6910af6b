package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/invoicer/invoicing-app/internal/api"
	"github.com/invoicer/invoicing-app/internal/core/ports"
	"github.com/invoicer/invoicing-app/internal/core/service"
	"github.com/invoicer/invoicing-app/internal/infrastructure/backend"
	"github.com/invoicer/invoicing-app/internal/infrastructure/db/mongo"
	"github.com/invoicer/invoicing-app/internal/infrastructure/db/redis"
	"github.com/invoicer/invoicing-app/internal/infrastructure/store"
	"github.com/invoicer/invoicing-app/internal/pkg/config"
	"github.com/invoicer/invoicing-app/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// sessionStore is the durable side of the session manager plus whatever must
// happen to release it.
type sessionStore struct {
	store  ports.SessionStore
	pinger ports.Pinger
	close  func()
}

func setupStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) sessionStore {
	noop := func() {}

	switch cfg.Session.Store {
	case config.StoreMemory:
		return sessionStore{store: store.NewMemoryStore(), close: noop}

	case config.StoreRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		s := redis.NewSessionStore(client, cfg.Session.Namespace)
		return sessionStore{store: s, pinger: s, close: func() { _ = client.Close() }}

	case config.StoreMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		s := mongo.NewSessionStore(db, cfg.Session.Namespace)
		return sessionStore{store: s, pinger: s, close: func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}}

	default:
		return sessionStore{store: store.NewFileStore(cfg.Session.Path, cfg.Session.Namespace), close: noop}
	}
}

func setupBackend(cfg *config.Config) *backend.Client {
	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
	}, logger.Component("backend"))
	if err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("failed to create backend client")
	}
	return client
}

func runGracefulShutdown(e *echo.Echo, session *service.SessionManager, log zerolog.Logger) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("shutdown signal received, cleaning up")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}

		// The persisted session outlives the process; only the timer stops.
		session.Close()

		close(done)
	}()

	return done
}

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "invoicer",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Str("store", cfg.Session.Store).Msg("application starting")

	clock := clockwork.NewRealClock()
	ctx := context.Background()

	st := setupStore(ctx, cfg, log)
	defer st.close()

	backendClient := setupBackend(cfg)

	session := service.NewSessionManager(st.store, clock, logger.Component("session"))
	if session.Initialize(ctx) {
		log.Info().Msg("persisted session restored")
	}

	authService := service.NewAuthService(backendClient, session, clock, cfg.Session.TokenTTL, logger.Component("auth"))
	clientService := service.NewClientService(backendClient, session, logger.Component("clients"))
	invoiceService := service.NewInvoiceService(backendClient, session, logger.Component("invoices"))

	checks := map[string]ports.Pinger{}
	if st.pinger != nil {
		checks["session_store"] = st.pinger
	}

	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Session:  session,
		Clients:  clientService,
		Invoices: invoiceService,
		Checks:   checks,
	}, logger.Component("http"))

	done := runGracefulShutdown(e, session, log)

	log.Info().Str("addr", ":"+cfg.Port).Msg("http server listening")
	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("http server stopped")
		session.Close()
		st.close()
		os.Exit(1)
	}

	<-done
	log.Info().Msg("shutdown complete")
}
