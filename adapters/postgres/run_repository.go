package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pvsynergy/domain/core"
	"pvsynergy/models"
	"pvsynergy/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// signals per INSERT; keeps bind parameters under the postgres limit
const signalBatchSize = 1000

const signalColumns = `run_id, position, source_index, combination_tox_id, combination_name,
	drug_name_1, drug_name_2, snomed_reaction, meddra_preferred_term_name,
	meddra_high_level_term, meddra_high_level_term_name, md_cases, md_total, y_obs,
	sd1_cases, sd1_total, sd2_cases, sd2_total, y_pred, bliss_ratio, chi2_obs,
	chi2_exp, chi2_ratio, chi2, p, min_cases, benchmark_freq`

const runColumns = `id, created_at, fingerprint, input_set_hash, params_hash, code_version,
	min_cases, yates_correction, alpha, benchmark_base, joined_records,
	dropped_by_join, output_dir, manifest`

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// Open connects to dsn and returns a repository owning the connection.
func Open(ctx context.Context, dsn string) (*RunRepositoryImpl, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &RunRepositoryImpl{db: db}, nil
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// DB exposes the connection for migrations.
func (r *RunRepositoryImpl) DB() *sqlx.DB { return r.db }

func (r *RunRepositoryImpl) Close() error { return r.db.Close() }

// SaveRun replaces any stored copy of the run inside one transaction
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, run *models.RunRecord, signals []*models.SignalRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM synergy_signals WHERE run_id = $1`, run.ID); err != nil {
		return fmt.Errorf("clear signals: %w", err)
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO synergy_runs (`+runColumns+`)
		VALUES (:id, :created_at, :fingerprint, :input_set_hash, :params_hash, :code_version,
			:min_cases, :yates_correction, :alpha, :benchmark_base, :joined_records,
			:dropped_by_join, :output_dir, :manifest)
		ON CONFLICT (id) DO UPDATE SET
			fingerprint = EXCLUDED.fingerprint,
			joined_records = EXCLUDED.joined_records,
			dropped_by_join = EXCLUDED.dropped_by_join,
			output_dir = EXCLUDED.output_dir,
			manifest = EXCLUDED.manifest`, run)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for start := 0; start < len(signals); start += signalBatchSize {
		end := min(start+signalBatchSize, len(signals))
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO synergy_signals (`+signalColumns+`)
			VALUES (:run_id, :position, :source_index, :combination_tox_id, :combination_name,
				:drug_name_1, :drug_name_2, :snomed_reaction, :meddra_preferred_term_name,
				:meddra_high_level_term, :meddra_high_level_term_name, :md_cases, :md_total, :y_obs,
				:sd1_cases, :sd1_total, :sd2_cases, :sd2_total, :y_pred, :bliss_ratio, :chi2_obs,
				:chi2_exp, :chi2_ratio, :chi2, :p, :min_cases, :benchmark_freq)`, signals[start:end])
		if err != nil {
			return fmt.Errorf("insert signals %d-%d: %w", start, end, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run header by id
func (r *RunRepositoryImpl) GetRun(ctx context.Context, runID string) (*models.RunRecord, error) {
	var run models.RunRecord
	err := r.db.GetContext(ctx, &run, `SELECT `+runColumns+` FROM synergy_runs WHERE id = $1`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// LatestRun returns the newest run header
func (r *RunRepositoryImpl) LatestRun(ctx context.Context) (*models.RunRecord, error) {
	var run models.RunRecord
	err := r.db.GetContext(ctx, &run, `SELECT `+runColumns+` FROM synergy_runs ORDER BY created_at DESC, id DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns run headers newest first
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]*models.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []*models.RunRecord
	err := r.db.SelectContext(ctx, &runs, `
		SELECT `+runColumns+`
		FROM synergy_runs
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	return runs, err
}

// ListSignals returns signals of one run in final-dataset order
func (r *RunRepositoryImpl) ListSignals(ctx context.Context, runID string, filter ports.SignalFilter) ([]*models.SignalRecord, error) {
	query := `SELECT ` + signalColumns + ` FROM synergy_signals WHERE run_id = $1`
	args := []interface{}{runID}

	if filter.MinCasesOnly {
		query += ` AND min_cases`
	}
	if filter.BenchmarkOnly {
		query += ` AND benchmark_freq IS NOT NULL`
	}
	query += ` ORDER BY position`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	var signals []*models.SignalRecord
	if err := r.db.SelectContext(ctx, &signals, query, args...); err != nil {
		return nil, fmt.Errorf("list signals of run %s: %w", runID, err)
	}
	return signals, nil
}
