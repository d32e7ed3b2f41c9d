package excel

import (
	"bufio"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"
	apperrors "pvsynergy/internal/errors"
	"pvsynergy/internal/logging"
)

// StageWriter writes stage views as CSV files into one output directory.
type StageWriter struct {
	dir string
}

func NewStageWriter(dir string) *StageWriter {
	return &StageWriter{dir: dir}
}

// Dir is the output directory.
func (w *StageWriter) Dir() string { return w.dir }

// WriteStage writes rows to the stage's output file and returns its path. The
// first column is an unnamed integer index: the record's position in the
// initial set when the stage keeps indices, else 0..n-1.
func (w *StageWriter) WriteStage(ctx context.Context, spec stage.StageSpec, rows []synergy.AnnotatedRecord) (string, error) {
	path := filepath.Join(w.dir, spec.OutputFile)
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", apperrors.OutputError(w.dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.OutputError(path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	if err := WriteCSV(ctx, buf, spec, rows); err != nil {
		return "", apperrors.OutputError(path, err)
	}
	if err := buf.Flush(); err != nil {
		return "", apperrors.OutputError(path, err)
	}
	if err := f.Close(); err != nil {
		return "", apperrors.OutputError(path, err)
	}

	logging.Component("writer").WithFields(map[string]interface{}{
		"stage": spec.Name,
		"path":  path,
		"rows":  len(rows),
	}).Info("stage written")
	return path, nil
}

// WriteCSV encodes rows in the stage's column layout.
func WriteCSV(ctx context.Context, out *bufio.Writer, spec stage.StageSpec, rows []synergy.AnnotatedRecord) error {
	cols := ColumnsFor(spec)
	cw := csv.NewWriter(out)

	header := append([]string{""}, Headers(cols)...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(cols)+1)
	for i, r := range rows {
		if i%5000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		idx := i
		if spec.KeepIndex {
			idx = r.Index
		}
		record[0] = strconv.Itoa(idx)
		for j, c := range cols {
			record[j+1] = FormatValue(c.Value(r))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
