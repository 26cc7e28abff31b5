// Package server wires the configuration, stores and HTTP endpoint into a
// running application with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/obslog/internal/logging"
	"github.com/dmitrijs2005/obslog/internal/server/config"
	"github.com/dmitrijs2005/obslog/internal/server/httpapi"
	"github.com/dmitrijs2005/obslog/internal/server/mail"
	"github.com/dmitrijs2005/obslog/internal/server/repositories/blob"
	"github.com/dmitrijs2005/obslog/internal/server/repositories/dataset"
	"github.com/dmitrijs2005/obslog/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  dataset.Store
	server *httpapi.Server
}

func newDatasetStore(ctx context.Context, cfg *config.Config) (dataset.Store, error) {
	switch cfg.DatasetBackend {
	case config.DatasetBackendJSONFile:
		return dataset.NewJSONFileStore(cfg.DatasetFile)
	case config.DatasetBackendMemory:
		return dataset.NewMemoryStore(), nil
	case config.DatasetBackendPostgres:
		return dataset.NewPostgresStore(ctx, cfg.DatabaseDSN)
	}
	return nil, fmt.Errorf("unknown dataset backend: %s", cfg.DatasetBackend)
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendFilesystem:
		return blob.NewFilesystemStore(cfg.StorageDir)
	case config.StorageBackendMemory:
		return blob.NewMemoryStore(), nil
	case config.StorageBackendS3:
		return blob.NewS3Store(ctx, blob.S3Options{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	}
	return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	store, err := newDatasetStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("dataset store init error: %w", err)
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	mailer := mail.NewSMTPMailer(cfg, logger)

	handlers := httpapi.NewHandlers(
		services.NewAuthService(store, cfg.CodeTTL),
		services.NewUserService(store),
		services.NewObservationService(store, blobs, logger),
		services.NewAttachmentService(store, blobs),
		services.NewTaxonomyService(store),
		mailer,
		cfg.DevMode,
	)

	srv := httpapi.NewServer(cfg.EndpointAddr, handlers, logger)

	return &App{config: cfg, logger: logger, store: store, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"dataset_backend", app.config.DatasetBackend,
		"storage_backend", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
