package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "CardSight/internal/domain/repository"
	"CardSight/internal/services/speech"
	"CardSight/internal/usecase"
	"CardSight/pkg/config"
	xhttp "CardSight/pkg/http"
	httpmiddleware "CardSight/pkg/http/middleware"
	applogger "CardSight/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	handler     xhttp.Handler
	transcriber *speech.Transcriber
	sessions    *usecase.SessionManager
	priceCache  domrepo.PriceCache
	sessionLog  domrepo.SessionLog
	events      domrepo.EventPublisher

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	transcriber *speech.Transcriber,
	sessions *usecase.SessionManager,
	priceCache domrepo.PriceCache,
	sessionLog domrepo.SessionLog,
	events domrepo.EventPublisher,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		handler:     handler,
		transcriber: transcriber,
		sessions:    sessions,
		priceCache:  priceCache,
		sessionLog:  sessionLog,
		events:      events,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.logger),
	}
	if a.cfg.Metrics.Enabled {
		opts = append(opts,
			xhttp.WithMetricsPath(a.cfg.Metrics.Path),
			xhttp.WithMiddleware(httpmiddleware.Metrics(a.logger, time.Second)),
		)
	}
	a.httpServer = xhttp.NewServer(a.handler, opts...)

	if a.cfg.Kafka.Enabled {
		a.logger.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   time.Minute,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.Topic + ".logs",
			Publisher:      a.events,
		})
	}

	// speech runs app-wide, shared by every session
	a.transcriber.Start(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server listening", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.sessions.StopAll()
	a.transcriber.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.priceCache.Close(); err != nil {
		a.logger.Warn("price cache close error", applogger.Error(err))
	}
	if err := a.sessionLog.Close(); err != nil {
		a.logger.Warn("session log close error", applogger.Error(err))
	}
	a.logger.RemoveCollector()
	if err := a.events.Close(); err != nil {
		a.logger.Warn("event publisher close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
