package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-quote-keeper/internal/adapter"
	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/MKhiriev/go-quote-keeper/internal/prefs"
	"github.com/MKhiriev/go-quote-keeper/internal/server"
	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/internal/tui"
	"github.com/MKhiriev/go-quote-keeper/internal/workers"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// eventBuffer is the number of sync events kept for the UI.
const eventBuffer = 64

type App struct {
	cfg       *config.ClientConfig
	buildInfo models.AppBuildInfo

	services *service.ClientServices
	prefs    *prefs.Store
	registry *prometheus.Registry
	events   *service.ChannelNotifier

	logger *logger.Logger
}

// NewApp opens the storage backend, restores the saved state and wires the
// services. The starter quotes are added on a fresh install when enabled.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	storage, err := store.NewClientStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create client storage: %w", err)
	}

	app, err := newApp(ctx, cfg, buildInfo, storage, logger)
	if err != nil {
		return nil, errors.Join(err, storage.Close())
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, storage store.StateStorage, logger *logger.Logger) (*App, error) {
	remote, err := adapter.NewHTTPRemoteAdapter(cfg.Adapter, logger)
	if err != nil {
		return nil, fmt.Errorf("create remote adapter: %w", err)
	}

	registry := metrics.NewRegistry()
	syncMetrics, err := metrics.NewSyncMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("create sync metrics: %w", err)
	}
	events := service.NewChannelNotifier(eventBuffer)

	services, err := service.NewClientServices(cfg, storage, remote, service.MultiNotifier{syncMetrics, events}, logger)
	if err != nil {
		return nil, fmt.Errorf("create client services: %w", err)
	}

	fresh, err := services.Persister.Load(ctx)
	if err != nil {
		return nil, err
	}
	if fresh && cfg.App.SeedDefaults {
		added, err := services.QuoteService.SeedDefaults(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("func", "client.NewApp").Msg("failed to seed starter quotes")
		} else {
			logger.Info().Int("added", added).Msg("starter quotes added")
		}
	}

	return &App{
		cfg:       cfg,
		buildInfo: buildInfo,
		services:  services,
		prefs:     prefs.NewStore(cfg.Storage.PrefsPath),
		registry:  registry,
		events:    events,
		logger:    logger,
	}, nil
}

func (a *App) Services() *service.ClientServices {
	return a.services
}

func (a *App) Prefs() *prefs.Store {
	return a.prefs
}

func (a *App) BuildInfo() models.AppBuildInfo {
	return a.buildInfo
}

// RunBackground runs the scheduled sync and, when configured, the metrics
// listener until ctx is cancelled.
func (a *App) RunBackground(ctx context.Context) error {
	ws := workers.NewWorkers(a.logger, workers.NewSyncWorker(a.services.SyncJob, a.cfg.Workers.SyncInterval))

	if a.cfg.Workers.MetricsAddress != "" {
		srv, err := server.NewHTTPServer(metrics.Handler(a.registry), a.cfg.Workers.MetricsAddress, a.logger)
		if err != nil {
			return fmt.Errorf("create metrics server: %w", err)
		}
		ws.Add(workers.NewServerWorker(srv))
	}

	return ws.Run(ctx)
}

// Run implements [Client]. It shows the terminal UI while the background
// workers keep syncing, and stops them when the UI exits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.RunBackground(gctx)
	})

	ui := tui.New(tui.Deps{
		Quotes:    a.services.QuoteService,
		Sync:      a.services.SyncService,
		Prefs:     a.prefs,
		Events:    a.events.C(),
		BuildInfo: a.buildInfo,
	}, a.logger)
	uiErr := ui.Run(gctx)

	cancel()
	return errors.Join(uiErr, g.Wait())
}

// Close persists pending changes and releases the storage backend.
func (a *App) Close() error {
	var saveErr error
	if a.services.Store.Dirty() {
		saveErr = a.services.Persister.Save(context.Background())
	}
	return errors.Join(saveErr, a.services.Persister.Close())
}
