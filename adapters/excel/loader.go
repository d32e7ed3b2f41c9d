package excel

import (
	"context"
	"math"
	"strconv"

	"pvsynergy/domain/core"
	"pvsynergy/domain/faers"
	apperrors "pvsynergy/internal/errors"
	"pvsynergy/internal/logging"
)

// Loader turns raw input tables into typed records. Every method fails with an
// INPUT_SHAPE error on a missing column or an unparsable cell.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

func (l *Loader) read(ctx context.Context, kind InputKind, path string) (*Table, []int, error) {
	table, err := NewDataReader(path).ReadData(ctx)
	if err != nil {
		if core.IsNotFoundError(err) || core.IsInputShapeError(err) {
			return nil, nil, apperrors.InputShape(string(kind), err)
		}
		return nil, nil, apperrors.Wrapf(err, "read %s input", kind)
	}
	cols, err := table.Columns(RequiredColumns[kind]...)
	if err != nil {
		return nil, nil, apperrors.InputShape(string(kind), err)
	}
	return table, cols, nil
}

// ReadSingleCases reads the single-drug case file.
func (l *Loader) ReadSingleCases(ctx context.Context, path string) ([]faers.SingleCase, error) {
	t, cols, err := l.read(ctx, InputSingleDrug, path)
	if err != nil {
		return nil, err
	}
	exposure, reaction, caseID := cols[0], cols[1], cols[2]

	out := make([]faers.SingleCase, 0, t.Len())
	for i := range t.Rows {
		drug, err := parseID(t, i, exposure)
		if err != nil {
			return nil, apperrors.InputShape(string(InputSingleDrug), err)
		}
		r, err := parseID(t, i, reaction)
		if err != nil {
			return nil, apperrors.InputShape(string(InputSingleDrug), err)
		}
		out = append(out, faers.SingleCase{
			CaseID:   t.Cell(i, caseID),
			Drug:     faers.DrugID(drug),
			Reaction: faers.ReactionID(r),
		})
	}
	return out, nil
}

// ReadCombinationCases reads the multi-drug case file. Exposure keys are
// "<int>&<int>" and are stored in canonical order.
func (l *Loader) ReadCombinationCases(ctx context.Context, path string) ([]faers.CombinationCase, error) {
	t, cols, err := l.read(ctx, InputMultiDrug, path)
	if err != nil {
		return nil, err
	}
	exposure, reaction, caseID := cols[0], cols[1], cols[2]

	out := make([]faers.CombinationCase, 0, t.Len())
	for i := range t.Rows {
		pair, err := faers.ParseDrugPair(t.Cell(i, exposure))
		if err != nil {
			return nil, apperrors.InputShape(string(InputMultiDrug), err)
		}
		r, err := parseID(t, i, reaction)
		if err != nil {
			return nil, apperrors.InputShape(string(InputMultiDrug), err)
		}
		out = append(out, faers.CombinationCase{
			CaseID:   t.Cell(i, caseID),
			Pair:     pair,
			Reaction: faers.ReactionID(r),
		})
	}
	return out, nil
}

// ReadDrugs reads the drug id to name table. Rows with a blank name carry no
// name and are skipped.
func (l *Loader) ReadDrugs(ctx context.Context, path string) ([]faers.Drug, error) {
	t, cols, err := l.read(ctx, InputDrugs, path)
	if err != nil {
		return nil, err
	}
	idCol, nameCol := cols[0], cols[1]

	out := make([]faers.Drug, 0, t.Len())
	skipped := 0
	for i := range t.Rows {
		id, err := parseID(t, i, idCol)
		if err != nil {
			return nil, apperrors.InputShape(string(InputDrugs), err)
		}
		name := t.Cell(i, nameCol)
		if name == "" {
			skipped++
			continue
		}
		out = append(out, faers.Drug{ID: faers.DrugID(id), Name: name})
	}
	if skipped > 0 {
		logging.Component("loader").WithField("input", InputDrugs).Debugf("skipped %d drugs without a name", skipped)
	}
	return out, nil
}

// ReadReactions reads the SNOMED to MedDRA term table.
func (l *Loader) ReadReactions(ctx context.Context, path string) ([]faers.Reaction, error) {
	t, cols, err := l.read(ctx, InputReactions, path)
	if err != nil {
		return nil, err
	}

	out := make([]faers.Reaction, 0, t.Len())
	for i := range t.Rows {
		id, err := parseID(t, i, cols[0])
		if err != nil {
			return nil, apperrors.InputShape(string(InputReactions), err)
		}
		out = append(out, faers.Reaction{
			ID:                faers.ReactionID(id),
			PreferredTermName: t.Cell(i, cols[1]),
			HighLevelTerm:     t.Cell(i, cols[2]),
			HighLevelTermName: t.Cell(i, cols[3]),
		})
	}
	return out, nil
}

// ReadBenchmark reads the reference frequency table.
func (l *Loader) ReadBenchmark(ctx context.Context, path string) ([]faers.BenchmarkEntry, error) {
	t, cols, err := l.read(ctx, InputBenchmark, path)
	if err != nil {
		return nil, err
	}

	out := make([]faers.BenchmarkEntry, 0, t.Len())
	for i := range t.Rows {
		id, err := parseID(t, i, cols[1])
		if err != nil {
			return nil, apperrors.InputShape(string(InputBenchmark), err)
		}
		raw := t.Cell(i, cols[2])
		freq, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperrors.InputShape(string(InputBenchmark),
				core.NewMalformedCellError(t.Source, t.Headers[cols[2]], i+2, raw))
		}
		out = append(out, faers.BenchmarkEntry{
			Combination: t.Cell(i, cols[0]),
			Reaction:    faers.ReactionID(id),
			Frequency:   freq,
		})
	}
	return out, nil
}

// parseID reads an integer id cell. Integral floats such as "100.0" are
// accepted. Row numbers in errors count the header as line 1.
func parseID(t *Table, row, col int) (int64, error) {
	raw := t.Cell(row, col)
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return int64(f), nil
	}
	return 0, core.NewMalformedCellError(t.Source, t.Headers[col], row+2, raw)
}
