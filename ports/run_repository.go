package ports

import (
	"context"

	"pvsynergy/models"
)

// SignalFilter narrows a signal listing. Zero value lists every row.
type SignalFilter struct {
	MinCasesOnly  bool
	BenchmarkOnly bool
	Limit         int
	Offset        int
}

// RunRepository stores finished runs and their final datasets
type RunRepository interface {
	// SaveRun stores the run header and its signals atomically, replacing an
	// earlier copy of the same run
	SaveRun(ctx context.Context, run *models.RunRecord, signals []*models.SignalRecord) error

	// GetRun returns the run header, core.ErrRunNotFound when absent
	GetRun(ctx context.Context, runID string) (*models.RunRecord, error)

	// LatestRun returns the most recently created run
	LatestRun(ctx context.Context) (*models.RunRecord, error)

	// ListRuns returns run headers newest first
	ListRuns(ctx context.Context, limit int) ([]*models.RunRecord, error)

	// ListSignals returns a run's signals in final-dataset order
	ListSignals(ctx context.Context, runID string, filter SignalFilter) ([]*models.SignalRecord, error)

	Close() error
}
