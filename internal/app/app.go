// Package app initializes and holds long-lived application services, acting
// as a dependency injection container.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/breederops/breeder-control/internal/api"
	"github.com/breederops/breeder-control/internal/archive"
	"github.com/breederops/breeder-control/internal/audit"
	"github.com/breederops/breeder-control/internal/backend"
	"github.com/breederops/breeder-control/internal/clock/system"
	"github.com/breederops/breeder-control/internal/config"
	"github.com/breederops/breeder-control/internal/controller"
	"github.com/breederops/breeder-control/internal/events"
	"github.com/breederops/breeder-control/internal/id/uuid"
	"github.com/breederops/breeder-control/internal/logging"
	"github.com/breederops/breeder-control/internal/metrics"
)

// App contains the application's dependencies.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	apiServer *api.Server
	auditRec  audit.Recorder
	eventPub  events.Publisher
	archiver  archive.Archiver
}

// Build creates the application's dependencies. It fails fast if any
// configured provider cannot be initialized.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	zap.ReplaceGlobals(logger)
	metrics.Init()

	auditRec, err := setupAudit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	eventPub, err := setupEvents(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	archiver, err := setupArchive(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	client := backend.New(cfg.Backend, logger)
	ctrl := controller.New(client, uuid.New(), system.New(), auditRec, eventPub, archiver, logger)
	server := api.NewServer(ctrl, cfg, logger)

	return &App{
		cfg:       cfg,
		logger:    logger,
		apiServer: server,
		auditRec:  auditRec,
		eventPub:  eventPub,
		archiver:  archiver,
	}, nil
}

func setupAudit(ctx context.Context, cfg config.Config, logger *zap.Logger) (audit.Recorder, error) {
	switch cfg.Audit.Provider {
	case "postgres":
		logger.Info("using postgres audit recorder")
		rec, err := audit.NewPostgresRecorder(ctx, cfg.Audit.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("audit init failed: %w", err)
		}
		return rec, nil
	case "noop":
		logger.Info("audit recording disabled")
		return audit.NoOpRecorder{}, nil
	default:
		return nil, fmt.Errorf("unknown audit provider: %s", cfg.Audit.Provider)
	}
}

func setupEvents(ctx context.Context, cfg config.Config, logger *zap.Logger) (events.Publisher, error) {
	switch cfg.Events.Provider {
	case "pubsub":
		logger.Info("using pubsub event publisher", zap.String("topic", cfg.Events.GCP.TopicID))
		pub, err := events.NewPubSubPublisher(ctx, cfg.Events.GCP.ProjectID, cfg.Events.GCP.TopicID, logger)
		if err != nil {
			return nil, fmt.Errorf("events init failed: %w", err)
		}
		return pub, nil
	case "noop":
		logger.Info("event publishing disabled")
		return events.NoOpPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown events provider: %s", cfg.Events.Provider)
	}
}

func setupArchive(ctx context.Context, cfg config.Config, logger *zap.Logger) (archive.Archiver, error) {
	switch cfg.Archive.Provider {
	case "gcs":
		logger.Info("using gcs deletion archive", zap.String("bucket", cfg.Archive.GCS.Bucket))
		arch, err := archive.NewGCSArchiver(ctx, cfg.Archive.GCS.Bucket, cfg.Archive.GCS.Prefix, logger)
		if err != nil {
			return nil, fmt.Errorf("archive init failed: %w", err)
		}
		return arch, nil
	case "noop":
		logger.Info("deletion archiving disabled")
		return archive.NoOpArchiver{}, nil
	default:
		return nil, fmt.Errorf("unknown archive provider: %s", cfg.Archive.Provider)
	}
}

// Run starts the HTTP server and blocks until the context is canceled or a
// termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("http server started", zap.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}

	a.Close()
	return nil
}

// Close gracefully shuts down all services in the App container.
func (a *App) Close() {
	a.auditRec.Close()
	if err := a.eventPub.Close(); err != nil {
		a.logger.Warn("event publisher close failed", zap.Error(err))
	}
	if err := a.archiver.Close(); err != nil {
		a.logger.Warn("archiver close failed", zap.Error(err))
	}
	a.logger.Info("shutdown complete")
	if err := a.logger.Sync(); err != nil {
		// Best-effort; stderr sync commonly fails on some platforms.
		a.logger.Debug("logger sync failed", zap.Error(err))
	}
}
