package ports

import (
	"context"

	"pvsynergy/domain/run"
	"pvsynergy/domain/stage"
)

// ReaderPort provides read-only access to a finished output directory for the
// results browser. The UI cannot start runs or modify outputs through it.
type ReaderPort interface {
	// LatestRun returns the manifest of the run in the output directory
	LatestRun(ctx context.Context) (*run.Manifest, error)

	// StageRecords pages through one stage's output file
	StageRecords(ctx context.Context, name stage.StageName, q RecordQuery) (*StageRecords, error)

	// Report returns the rendered HTML run report
	Report(ctx context.Context) ([]byte, error)
}

// RecordQuery pages and filters stage rows
type RecordQuery struct {
	Limit  int
	Offset int

	// Reaction keeps rows of one SNOMED reaction when non-zero
	Reaction int64
}

// StageRecords is one page of a stage file. Empty cells are nil.
type StageRecords struct {
	Stage   stage.StageName      `json:"stage"`
	File    string               `json:"file"`
	Columns []string             `json:"columns"`
	Rows    []map[string]*string `json:"rows"`
	Total   int                  `json:"total"`
	Offset  int                  `json:"offset"`
	Limit   int                  `json:"limit"`
}
