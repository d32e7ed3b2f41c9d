package excel

import (
	"math"

	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"
	apperrors "pvsynergy/internal/errors"

	"github.com/xuri/excelize/v2"
)

// WorkbookFile is the name of the optional multi-sheet export.
const WorkbookFile = "pvsynergy_results.xlsx"

// StageSheet is one stage view destined for its own worksheet.
type StageSheet struct {
	Spec stage.StageSpec
	Rows []synergy.AnnotatedRecord
}

// SheetName is "<prefix>_<stage>", e.g. "03_min_cases".
func SheetName(spec stage.StageSpec) string {
	name := spec.Prefix + "_" + string(spec.Name)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// WriteWorkbook saves every stage as a worksheet with typed cells. Nulls and
// NaN are left blank; infinities are written as text.
func WriteWorkbook(path string, sheets []StageSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		name := SheetName(s.Spec)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return apperrors.OutputError(path, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return apperrors.OutputError(path, err)
		}
		if err := writeSheet(f, name, s); err != nil {
			return apperrors.OutputError(path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.OutputError(path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, s StageSheet) error {
	cols := ColumnsFor(s.Spec)

	header := make([]interface{}, 0, len(cols)+1)
	header = append(header, "")
	for _, c := range cols {
		header = append(header, c.Header)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range s.Rows {
		idx := i
		if s.Spec.KeepIndex {
			idx = r.Index
		}
		row := make([]interface{}, 0, len(cols)+1)
		row = append(row, idx)
		for _, c := range cols {
			row = append(row, workbookValue(c.Value(r)))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func workbookValue(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		if math.IsInf(x, 0) {
			return FormatFloat(x)
		}
		return x
	case synergy.NullString:
		if !x.Valid {
			return nil
		}
		return x.String
	case synergy.NullFloat:
		if !x.Valid {
			return nil
		}
		return workbookValue(x.Float64)
	}
	return v
}
