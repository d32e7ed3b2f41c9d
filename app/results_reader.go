package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"pvsynergy/adapters/excel"
	"pvsynergy/domain/core"
	"pvsynergy/domain/run"
	"pvsynergy/domain/stage"
	"pvsynergy/internal/report"
	"pvsynergy/ports"
)

// DefaultPageSize applies when a record query sets no limit.
const DefaultPageSize = 100

// MaxPageSize caps a single page of stage records.
const MaxPageSize = 1000

// ResultsReader serves a finished output directory read-only.
type ResultsReader struct {
	dir string
}

var _ ports.ReaderPort = (*ResultsReader)(nil)

func NewResultsReader(dir string) *ResultsReader {
	return &ResultsReader{dir: dir}
}

func (r *ResultsReader) LatestRun(ctx context.Context) (*run.Manifest, error) {
	return run.LoadManifest(filepath.Join(r.dir, run.ManifestFile))
}

// StageRecords reads the stage file recorded in the manifest. The leading
// unnamed index column is reported as "index".
func (r *ResultsReader) StageRecords(ctx context.Context, name stage.StageName, q ports.RecordQuery) (*ports.StageRecords, error) {
	m, err := r.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	res, ok := m.Stage(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrStageNotFound, name)
	}

	// stage files live next to the manifest even when the directory moved
	path := filepath.Join(r.dir, filepath.Base(res.OutputPath))
	t, err := excel.NewDataReader(path).ReadData(ctx)
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(t.Headers))
	copy(columns, t.Headers)
	if len(columns) > 0 && columns[0] == "" {
		columns[0] = "index"
	}

	rows := t.Rows
	if q.Reaction != 0 {
		col, err := t.Column(excel.ColReaction)
		if err != nil {
			return nil, err
		}
		want := strconv.FormatInt(q.Reaction, 10)
		filtered := make([][]string, 0)
		for i := range t.Rows {
			if t.Cell(i, col) == want {
				filtered = append(filtered, t.Rows[i])
			}
		}
		rows = filtered
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	offset := max(q.Offset, 0)

	out := &ports.StageRecords{
		Stage:   name,
		File:    filepath.Base(path),
		Columns: columns,
		Rows:    []map[string]*string{},
		Total:   len(rows),
		Offset:  offset,
		Limit:   limit,
	}
	for i := offset; i < len(rows) && i < offset+limit; i++ {
		rec := make(map[string]*string, len(columns))
		for j, c := range columns {
			if j < len(rows[i]) && rows[i][j] != "" {
				v := rows[i][j]
				rec[c] = &v
			} else {
				rec[c] = nil
			}
		}
		out.Rows = append(out.Rows, rec)
	}
	return out, nil
}

// Report returns report.html when the run wrote one, else a summary rendered
// from the manifest.
func (r *ResultsReader) Report(ctx context.Context) ([]byte, error) {
	page, err := os.ReadFile(filepath.Join(r.dir, report.HTMLFile))
	if err == nil {
		return page, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	m, err := r.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	return (&report.Report{Manifest: m}).HTML(), nil
}
