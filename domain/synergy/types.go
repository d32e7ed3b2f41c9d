package synergy

import (
	"math"

	"pvsynergy/domain/faers"
)

// SingleCell aggregates single-drug reports for one (drug, reaction).
type SingleCell struct {
	Drug     faers.DrugID
	Reaction faers.ReactionID
	CaseIDs  []string
	Count    int
	Total    int
	RelFreq  float64
}

// CombinationCell aggregates combination reports for one (pair, reaction).
// RelFreq is the observed frequency y_obs.
type CombinationCell struct {
	Pair     faers.DrugPair
	Reaction faers.ReactionID
	CaseIDs  []string
	Count    int
	Total    int
	RelFreq  float64
}

// Bliss holds the Bliss-independence prediction for one record.
type Bliss struct {
	Predicted float64 // y_pred
	Ratio     float64 // y_obs / y_pred, non-finite when Predicted == 0
}

// Table2x2 is a 2x2 contingency table, row-major.
type Table2x2 [2][2]float64

// Contingency is the pooled comparison between the combination and its two
// monotherapies for one reaction.
type Contingency struct {
	MDWith     int
	MDWithout  int
	SDWith     int
	SDWithout  int
	SDTotal    int
	ObsOdds    float64 // chi2_obs
	ExpOdds    float64 // chi2_exp
	OddsRatio  float64 // chi2_ratio
	Observed   Table2x2
	Expected   Table2x2
	Statistic  float64
	PValue     float64
	DOF        int
	Correction bool
}

// Record is one fully derived synergy row.
type Record struct {
	Index int

	Combination CombinationCell
	First       SingleCell
	Second      SingleCell

	DrugName1       NullString
	DrugName2       NullString
	CombinationName NullString

	PreferredTermName NullString
	HighLevelTerm     NullString
	HighLevelTermName NullString

	Bliss       Bliss
	Contingency Contingency
}

// Reaction returns the shared reaction id of the joined cells.
func (r *Record) Reaction() faers.ReactionID {
	return r.Combination.Reaction
}

// MeetsMinCases reports whether all three case counts reach min.
func (r *Record) MeetsMinCases(min int) bool {
	return r.Combination.Count >= min && r.First.Count >= min && r.Second.Count >= min
}

// IsBlissSignal reports bliss_ratio > 1. NaN never counts.
func (r *Record) IsBlissSignal() bool {
	return r.Bliss.Ratio > 1
}

// IsChiSquareSignal reports chi2_ratio > 1 with p below alpha.
func (r *Record) IsChiSquareSignal(alpha float64) bool {
	return r.Contingency.OddsRatio > 1 && r.Contingency.PValue < alpha
}

// AnnotatedRecord is a Record with the final-stage annotations.
type AnnotatedRecord struct {
	*Record
	MinCases  bool
	Benchmark NullFloat
}

// MinCasesFlag renders the annotation as the published Y/N column.
func (a AnnotatedRecord) MinCasesFlag() string {
	if a.MinCases {
		return "Y"
	}
	return "N"
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
