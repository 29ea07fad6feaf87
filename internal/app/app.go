package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"captureserver/internal/config"
	"captureserver/internal/handler"
	"captureserver/internal/logger"
	"captureserver/internal/repository/sqlite"
	"captureserver/internal/route"
	"captureserver/internal/service/catalog"
	"captureserver/internal/service/probe"
	"captureserver/internal/service/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   *logger.Logger
	store    *storage.Store
	db       *sqlite.DB
	recorder handler.CaptureRecorder
	server   *http.Server
}

// NewApp wires the process-wide context. The save directory exists once it returns.
func NewApp(cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(cfg.LogDirectory)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.SaveDirectory)
	if err != nil {
		log.Close()
		return nil, err
	}

	a := &App{
		config: cfg,
		logger: log,
		store:  store,
	}

	if cfg.DatabasePath != "" {
		if err := a.openCatalog(); err != nil {
			log.Close()
			return nil, err
		}
	} else {
		log.Info("Capture catalog disabled")
	}

	a.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      route.SetupRoutes(cfg, store, a.recorder, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return a, nil
}

func (a *App) openCatalog() error {
	if err := os.MkdirAll(filepath.Dir(a.config.DatabasePath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlite.New(a.config.DatabasePath)
	if err != nil {
		return err
	}

	a.db = db
	a.recorder = catalog.NewService(sqlite.NewCaptureRepository(db), probe.NewFrameProbe(), a.logger)
	return nil
}

// Handler returns the HTTP handler served by the app.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("🚀 ESP32 Capture Server")
	a.logger.Info("📍 Listening on http://%s", a.config.Addr())
	a.logger.Info("📁 Images: %s", a.store.Dir())
	if a.db != nil {
		a.logger.Info("🗄️  Catalog: %s", a.config.DatabasePath)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return a.server.Shutdown(shutdownCtx)
}

// Close releases the catalog database and log files.
func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	errs = append(errs, a.logger.Close())
	return errors.Join(errs...)
}
