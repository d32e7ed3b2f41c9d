package migrations

import (
	"context"

	"pvsynergy/models"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().
			Model((*models.RunRecord)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewCreateTable().
			Model((*models.SignalRecord)(nil)).
			IfNotExists().
			ForeignKey(`("run_id") REFERENCES "synergy_runs" ("id") ON DELETE CASCADE`).
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewDropTable().Model((*models.SignalRecord)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		_, err := db.NewDropTable().Model((*models.RunRecord)(nil)).IfExists().Exec(ctx)
		return err
	})
}
