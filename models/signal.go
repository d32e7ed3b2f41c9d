package models

import (
	"database/sql"
	"math"

	"pvsynergy/domain/synergy"

	"github.com/uptrace/bun"
)

// SignalRecord is one stored row of a run's final dataset. Non-finite ratios
// are stored as NULL.
type SignalRecord struct {
	bun.BaseModel `bun:"table:synergy_signals,alias:s"`

	RunID           string          `json:"run_id" db:"run_id" bun:"run_id,pk"`
	Position        int             `json:"position" db:"position" bun:"position,pk"`
	SourceIndex     int             `json:"source_index" db:"source_index" bun:"source_index,notnull"`
	CombinationTox  string          `json:"combination_tox_id" db:"combination_tox_id" bun:"combination_tox_id,notnull"`
	CombinationName sql.NullString  `json:"combination_name" db:"combination_name" bun:"combination_name"`
	DrugName1       sql.NullString  `json:"drug_name_1" db:"drug_name_1" bun:"drug_name_1"`
	DrugName2       sql.NullString  `json:"drug_name_2" db:"drug_name_2" bun:"drug_name_2"`
	Reaction        int64           `json:"snomed_reaction" db:"snomed_reaction" bun:"snomed_reaction,notnull"`
	PreferredTerm   sql.NullString  `json:"meddra_preferred_term_name" db:"meddra_preferred_term_name" bun:"meddra_preferred_term_name"`
	HighLevelTerm   sql.NullString  `json:"meddra_high_level_term" db:"meddra_high_level_term" bun:"meddra_high_level_term"`
	HighLevelName   sql.NullString  `json:"meddra_high_level_term_name" db:"meddra_high_level_term_name" bun:"meddra_high_level_term_name"`
	MDCases         int             `json:"md_cases" db:"md_cases" bun:"md_cases,notnull"`
	MDTotal         int             `json:"md_total" db:"md_total" bun:"md_total,notnull"`
	YObs            sql.NullFloat64 `json:"y_obs" db:"y_obs" bun:"y_obs"`
	SD1Cases        int             `json:"sd1_cases" db:"sd1_cases" bun:"sd1_cases,notnull"`
	SD1Total        int             `json:"sd1_total" db:"sd1_total" bun:"sd1_total,notnull"`
	SD2Cases        int             `json:"sd2_cases" db:"sd2_cases" bun:"sd2_cases,notnull"`
	SD2Total        int             `json:"sd2_total" db:"sd2_total" bun:"sd2_total,notnull"`
	YPred           sql.NullFloat64 `json:"y_pred" db:"y_pred" bun:"y_pred"`
	BlissRatio      sql.NullFloat64 `json:"bliss_ratio" db:"bliss_ratio" bun:"bliss_ratio"`
	Chi2Obs         sql.NullFloat64 `json:"chi2_obs" db:"chi2_obs" bun:"chi2_obs"`
	Chi2Exp         sql.NullFloat64 `json:"chi2_exp" db:"chi2_exp" bun:"chi2_exp"`
	Chi2Ratio       sql.NullFloat64 `json:"chi2_ratio" db:"chi2_ratio" bun:"chi2_ratio"`
	Chi2            sql.NullFloat64 `json:"chi2" db:"chi2" bun:"chi2"`
	P               sql.NullFloat64 `json:"p" db:"p" bun:"p"`
	MinCases        bool            `json:"min_cases" db:"min_cases" bun:"min_cases,notnull"`
	Benchmark       sql.NullFloat64 `json:"benchmark_freq" db:"benchmark_freq" bun:"benchmark_freq"`
}

// NewSignalRecords converts the final dataset of a run, keeping its order.
func NewSignalRecords(runID string, rows []synergy.AnnotatedRecord) []*SignalRecord {
	out := make([]*SignalRecord, 0, len(rows))
	for i, r := range rows {
		out = append(out, &SignalRecord{
			RunID:           runID,
			Position:        i,
			SourceIndex:     r.Index,
			CombinationTox:  r.Combination.Pair.String(),
			CombinationName: nullString(r.CombinationName),
			DrugName1:       nullString(r.DrugName1),
			DrugName2:       nullString(r.DrugName2),
			Reaction:        int64(r.Reaction()),
			PreferredTerm:   nullString(r.PreferredTermName),
			HighLevelTerm:   nullString(r.HighLevelTerm),
			HighLevelName:   nullString(r.HighLevelTermName),
			MDCases:         r.Combination.Count,
			MDTotal:         r.Combination.Total,
			YObs:            finite(r.Combination.RelFreq),
			SD1Cases:        r.First.Count,
			SD1Total:        r.First.Total,
			SD2Cases:        r.Second.Count,
			SD2Total:        r.Second.Total,
			YPred:           finite(r.Bliss.Predicted),
			BlissRatio:      finite(r.Bliss.Ratio),
			Chi2Obs:         finite(r.Contingency.ObsOdds),
			Chi2Exp:         finite(r.Contingency.ExpOdds),
			Chi2Ratio:       finite(r.Contingency.OddsRatio),
			Chi2:            finite(r.Contingency.Statistic),
			P:               finite(r.Contingency.PValue),
			MinCases:        r.MinCases,
			Benchmark:       nullFloat(r.Benchmark),
		})
	}
	return out
}

// MinCasesFlag renders the stored annotation as Y/N.
func (s *SignalRecord) MinCasesFlag() string {
	if s.MinCases {
		return "Y"
	}
	return "N"
}

func nullString(n synergy.NullString) sql.NullString {
	return sql.NullString{String: n.String, Valid: n.Valid}
}

func nullFloat(n synergy.NullFloat) sql.NullFloat64 {
	if !n.Valid {
		return sql.NullFloat64{}
	}
	return finite(n.Float64)
}

func finite(f float64) sql.NullFloat64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}
