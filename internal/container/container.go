package container

import (
	"context"
	"fmt"
	"io"

	"pvsynergy/adapters/excel"
	"pvsynergy/adapters/postgres"
	"pvsynergy/adapters/sqlite"
	"pvsynergy/app"
	"pvsynergy/internal/config"
	apperrors "pvsynergy/internal/errors"
	"pvsynergy/internal/logging"
	"pvsynergy/internal/migration"
	"pvsynergy/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Store is nil when no store driver is configured
	Store ports.RunRepository

	Pipeline *app.PipelineService
}

// New creates a new dependency injection container. Summaries of each stage
// are printed to out.
func New(ctx context.Context, cfg *config.Config, out io.Writer) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg}
	if err := c.initStore(ctx); err != nil {
		return nil, err
	}
	c.Pipeline = app.NewPipelineService(excel.NewLoader(), app.NewStageRunner(out), c.Store)
	return c, nil
}

// initStore opens the configured result store and brings its schema up to date
func (c *Container) initStore(ctx context.Context) error {
	store, err := OpenStore(ctx, c.Config.Store)
	if err != nil {
		return err
	}
	c.Store = store
	return nil
}

// OpenStore opens the run store selected by cfg.Driver. The empty driver
// returns a nil store.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (ports.RunRepository, error) {
	log := logging.Component("container").WithField("driver", cfg.Driver)

	switch cfg.Driver {
	case config.DriverNone:
		return nil, nil

	case config.DriverPostgres:
		repo, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, apperrors.DatabaseError("failed to connect to database", err)
		}
		if err := migration.NewRunner().Run(ctx, repo.DB()); err != nil {
			repo.Close()
			return nil, apperrors.DatabaseError("failed to migrate database", err)
		}
		log.Info("result store ready")
		return repo, nil

	case config.DriverSQLite:
		repo, err := sqlite.Open(ctx, cfg.DSN, cfg.Debug)
		if err != nil {
			return nil, apperrors.DatabaseError("failed to open database", err)
		}
		log.Info("result store ready")
		return repo, nil
	}

	return nil, apperrors.ConfigInvalid(fmt.Sprintf("unknown store driver %q", cfg.Driver))
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}
