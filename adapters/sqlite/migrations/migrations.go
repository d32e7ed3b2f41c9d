package migrations

import (
	"context"

	"pvsynergy/internal/logging"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations holds the SQLite store schema. Each file registers one step and
// is named <version>_<comment>.go.
var Migrations = migrate.NewMigrations()

// RunMigrations applies all pending migrations.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}

	log := logging.Component("migration")
	if group.IsZero() {
		log.Debug("no new sqlite migrations to run")
		return nil
	}

	log.WithField("group", group.String()).Info("sqlite schema migrated")
	return nil
}
