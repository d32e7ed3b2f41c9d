package migration

import (
	"context"

	"pvsynergy/internal/errors"
	"pvsynergy/internal/logging"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles the postgres result-store schema
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order. Every step is
// idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create synergy_runs table")
	}

	if err := r.createSignalsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create synergy_signals table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	logging.Component("migration").WithField("version", r.version).Info("postgres schema up to date")
	return nil
}

func (r *MigrationRunner) createRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS synergy_runs (
			id UUID PRIMARY KEY,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			fingerprint VARCHAR(64) NOT NULL,
			input_set_hash VARCHAR(64) NOT NULL,
			params_hash VARCHAR(64) NOT NULL,
			code_version VARCHAR(50) NOT NULL,
			min_cases INTEGER NOT NULL,
			yates_correction BOOLEAN NOT NULL DEFAULT false,
			alpha DOUBLE PRECISION NOT NULL,
			benchmark_base VARCHAR(20) NOT NULL,
			joined_records INTEGER NOT NULL DEFAULT 0,
			dropped_by_join INTEGER NOT NULL DEFAULT 0,
			output_dir TEXT NOT NULL,
			manifest JSONB NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createSignalsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS synergy_signals (
			run_id UUID NOT NULL REFERENCES synergy_runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			source_index INTEGER NOT NULL,
			combination_tox_id VARCHAR(50) NOT NULL,
			combination_name TEXT,
			drug_name_1 TEXT,
			drug_name_2 TEXT,
			snomed_reaction BIGINT NOT NULL,
			meddra_preferred_term_name TEXT,
			meddra_high_level_term TEXT,
			meddra_high_level_term_name TEXT,
			md_cases INTEGER NOT NULL,
			md_total INTEGER NOT NULL,
			y_obs DOUBLE PRECISION,
			sd1_cases INTEGER NOT NULL,
			sd1_total INTEGER NOT NULL,
			sd2_cases INTEGER NOT NULL,
			sd2_total INTEGER NOT NULL,
			y_pred DOUBLE PRECISION,
			bliss_ratio DOUBLE PRECISION,
			chi2_obs DOUBLE PRECISION,
			chi2_exp DOUBLE PRECISION,
			chi2_ratio DOUBLE PRECISION,
			chi2 DOUBLE PRECISION,
			p DOUBLE PRECISION,
			min_cases BOOLEAN NOT NULL DEFAULT false,
			benchmark_freq DOUBLE PRECISION,
			PRIMARY KEY (run_id, position)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_runs_created_at ON synergy_runs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON synergy_runs(fingerprint)",
		"CREATE INDEX IF NOT EXISTS idx_signals_reaction ON synergy_signals(run_id, snomed_reaction)",
		"CREATE INDEX IF NOT EXISTS idx_signals_bliss ON synergy_signals(run_id, bliss_ratio DESC)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// indexes only speed up reads
			logging.Component("migration").WithError(err).Warn("failed to create index")
		}
	}

	return nil
}
