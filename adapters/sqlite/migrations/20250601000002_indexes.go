package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_runs_created_at ON synergy_runs(created_at DESC)",
			"CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON synergy_runs(fingerprint)",
			"CREATE INDEX IF NOT EXISTS idx_signals_reaction ON synergy_signals(run_id, snomed_reaction)",
			"CREATE INDEX IF NOT EXISTS idx_signals_bliss ON synergy_signals(run_id, bliss_ratio DESC)",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"DROP INDEX IF EXISTS idx_signals_bliss",
			"DROP INDEX IF EXISTS idx_signals_reaction",
			"DROP INDEX IF EXISTS idx_runs_fingerprint",
			"DROP INDEX IF EXISTS idx_runs_created_at",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}

		return nil
	})
}
