package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pvsynergy/adapters/sqlite/migrations"
	"pvsynergy/domain/core"
	"pvsynergy/models"
	"pvsynergy/ports"

	"github.com/uptrace/bun"
)

const signalBatchSize = 500

// RunRepository stores runs in a SQLite file through bun.
type RunRepository struct {
	db *bun.DB
}

// Open opens dsn and applies pending migrations.
func Open(ctx context.Context, dsn string, debug bool) (*RunRepository, error) {
	db, err := NewDB(dsn, debug)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &RunRepository{db: db}, nil
}

func NewRunRepository(db *bun.DB) ports.RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Close() error { return r.db.Close() }

// SaveRun replaces any stored copy of the run in one transaction.
func (r *RunRepository) SaveRun(ctx context.Context, run *models.RunRecord, signals []*models.SignalRecord) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.SignalRecord)(nil)).
			Where("run_id = ?", run.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear signals: %w", err)
		}
		if _, err := tx.NewDelete().
			Model((*models.RunRecord)(nil)).
			Where("id = ?", run.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear run: %w", err)
		}

		if _, err := tx.NewInsert().Model(run).Exec(ctx); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for start := 0; start < len(signals); start += signalBatchSize {
			batch := signals[start:min(start+signalBatchSize, len(signals))]
			if _, err := tx.NewInsert().Model(&batch).Exec(ctx); err != nil {
				return fmt.Errorf("insert signals at %d: %w", start, err)
			}
		}
		return nil
	})
}

func (r *RunRepository) GetRun(ctx context.Context, runID string) (*models.RunRecord, error) {
	run := new(models.RunRecord)
	err := r.db.NewSelect().
		Model(run).
		Where("r.id = ?", runID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *RunRepository) LatestRun(ctx context.Context) (*models.RunRecord, error) {
	run := new(models.RunRecord)
	err := r.db.NewSelect().
		Model(run).
		OrderExpr("r.created_at DESC, r.id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns run headers newest first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*models.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []*models.RunRecord
	err := r.db.NewSelect().
		Model(&runs).
		OrderExpr("r.created_at DESC, r.id DESC").
		Limit(limit).
		Scan(ctx)
	return runs, err
}

// ListSignals returns a run's signals in final-dataset order.
func (r *RunRepository) ListSignals(ctx context.Context, runID string, filter ports.SignalFilter) ([]*models.SignalRecord, error) {
	var signals []*models.SignalRecord
	q := r.db.NewSelect().
		Model(&signals).
		Where("s.run_id = ?", runID).
		Order("s.position")

	if filter.MinCasesOnly {
		q = q.Where("s.min_cases = ?", true)
	}
	if filter.BenchmarkOnly {
		q = q.Where("s.benchmark_freq IS NOT NULL")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			// sqlite accepts OFFSET only after a LIMIT
			q = q.Limit(-1)
		}
		q = q.Offset(filter.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list signals of run %s: %w", runID, err)
	}
	return signals, nil
}
