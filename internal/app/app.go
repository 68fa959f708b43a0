package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"apodgallery/internal/config"
	"apodgallery/internal/dto"
	"apodgallery/internal/facts"
	"apodgallery/internal/logger"
	"apodgallery/internal/metrics"
	"apodgallery/internal/route"
	"apodgallery/internal/service"
	"apodgallery/internal/service/apod"
	"apodgallery/internal/service/hub"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	config  *config.Config
	logger  *logger.Logger
	metrics *metrics.Collector
	hub     *hub.Hub
	manager *service.Manager
	server  *http.Server
}

// NewApp loads the configuration and wires every service.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, log), nil
}

// New wires the services for an already loaded configuration.
func New(cfg *config.Config, log *logger.Logger) *App {
	collector := metrics.NewCollector("apod_gallery")

	fetcher := apod.New(apod.Options{
		BaseURL:        cfg.APODBaseURL,
		APIKey:         cfg.APIKey,
		PlaceholderURL: cfg.PlaceholderURL,
		Timeout:        cfg.FetchTimeout,
		Logger:         log,
		Metrics:        collector,
	})
	sessions := hub.New(log, collector)
	mng := service.NewManager(cfg, fetcher, facts.Default(), sessions, collector, log)

	return &App{
		config:  cfg,
		logger:  log,
		metrics: collector,
		hub:     sessions,
		manager: mng,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           route.SetupRoutes(mng, cfg, log),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("APOD gallery listening on http://localhost:%d (logs in %s)", a.config.Port, a.config.LogDirectory)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.hub.Stop()
		a.logger.Close()
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown.
	a.hub.Broadcast(dto.NoticeMessage{Type: "notice", Message: "The server is restarting. Reload the page in a moment."})
	a.hub.Stop()
	err := a.server.Shutdown(shutdownCtx)
	if err != nil {
		a.logger.Error("Server shutdown error: %v", err)
	}
	a.logger.Close()
	return err
}
