package excel

import (
	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"
)

// Column is one output column: its header and a typed cell extractor. Cells are
// nil, string, int, int64, float64 or one of the synergy null types.
type Column struct {
	Header string
	Value  func(r synergy.AnnotatedRecord) interface{}
}

func col(header string, v func(r synergy.AnnotatedRecord) interface{}) Column {
	return Column{Header: header, Value: v}
}

var (
	combinationName = col("combination_name", func(r synergy.AnnotatedRecord) interface{} { return r.CombinationName })
	drugName1       = col("drug_name_1", func(r synergy.AnnotatedRecord) interface{} { return r.DrugName1 })
	drugName2       = col("drug_name_2", func(r synergy.AnnotatedRecord) interface{} { return r.DrugName2 })
	snomedReaction  = col("snomed_reaction", func(r synergy.AnnotatedRecord) interface{} { return int64(r.Reaction()) })
	preferredTerm   = col("meddra_preferred_term_name", func(r synergy.AnnotatedRecord) interface{} { return r.PreferredTermName })
	highLevelTerm   = col("meddra_high_level_term", func(r synergy.AnnotatedRecord) interface{} { return r.HighLevelTerm })
	highLevelName   = col("meddra_high_level_term_name", func(r synergy.AnnotatedRecord) interface{} { return r.HighLevelTermName })
)

// WorkingColumns is the full column set of the initial stage.
var WorkingColumns = []Column{
	col("combination_tox_id", func(r synergy.AnnotatedRecord) interface{} { return r.Combination.Pair.String() }),
	combinationName,
	drugName1,
	drugName2,
	snomedReaction,
	preferredTerm,
	highLevelTerm,
	highLevelName,
	col("case_id_md", func(r synergy.AnnotatedRecord) interface{} { return FormatIDList(r.Combination.CaseIDs) }),
	col("total_cases_md_toxid_snomed", func(r synergy.AnnotatedRecord) interface{} { return r.Combination.Count }),
	col("total_cases_md_toxid", func(r synergy.AnnotatedRecord) interface{} { return r.Combination.Total }),
	col("y_obs", func(r synergy.AnnotatedRecord) interface{} { return r.Combination.RelFreq }),
	col("tox_drug_id_1", func(r synergy.AnnotatedRecord) interface{} { return int64(r.First.Drug) }),
	col("case_id_1", func(r synergy.AnnotatedRecord) interface{} { return FormatIDList(r.First.CaseIDs) }),
	col("total_cases_sd_toxid_snomed_1", func(r synergy.AnnotatedRecord) interface{} { return r.First.Count }),
	col("total_cases_sd_toxid_1", func(r synergy.AnnotatedRecord) interface{} { return r.First.Total }),
	col("rel_freq_sd_1", func(r synergy.AnnotatedRecord) interface{} { return r.First.RelFreq }),
	col("tox_drug_id_2", func(r synergy.AnnotatedRecord) interface{} { return int64(r.Second.Drug) }),
	col("case_id_2", func(r synergy.AnnotatedRecord) interface{} { return FormatIDList(r.Second.CaseIDs) }),
	col("total_cases_sd_toxid_snomed_2", func(r synergy.AnnotatedRecord) interface{} { return r.Second.Count }),
	col("total_cases_sd_toxid_2", func(r synergy.AnnotatedRecord) interface{} { return r.Second.Total }),
	col("rel_freq_sd_2", func(r synergy.AnnotatedRecord) interface{} { return r.Second.RelFreq }),
	col("y_pred", func(r synergy.AnnotatedRecord) interface{} { return r.Bliss.Predicted }),
	col("bliss_ratio", func(r synergy.AnnotatedRecord) interface{} { return r.Bliss.Ratio }),
	col("total_cases_sd_toxid_snomed_1_2", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.SDWith }),
	col("total_cases_sd_toxid_1_2", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.SDTotal }),
	col("md_no_event", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.MDWithout }),
	col("sd_no_event", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.SDWithout }),
	col("chi2_obs", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.ObsOdds }),
	col("chi2_exp", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.ExpOdds }),
	col("chi2_ratio", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.OddsRatio }),
	col("observed", func(r synergy.AnnotatedRecord) interface{} { return FormatTable(r.Contingency.Observed, true) }),
	col("chi2", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.Statistic }),
	col("p", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.PValue }),
	col("dof", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.DOF }),
	col("expected", func(r synergy.AnnotatedRecord) interface{} { return FormatTable(r.Contingency.Expected, false) }),
}

// PublicationColumns is the reduced, renamed column set of stages 03 to 05.
var PublicationColumns = []Column{
	combinationName,
	drugName1,
	drugName2,
	snomedReaction,
	preferredTerm,
	highLevelTerm,
	highLevelName,
	col("total_cases_md_snomed_drugs", func(r synergy.AnnotatedRecord) interface{} { return r.Combination.Count }),
	col("total_cases_md_drugs", func(r synergy.AnnotatedRecord) interface{} { return r.Combination.Total }),
	col("relative_frequency_md (y_obs)", func(r synergy.AnnotatedRecord) interface{} { return r.Combination.RelFreq }),
	col("total_cases_sd_snomed_drug1", func(r synergy.AnnotatedRecord) interface{} { return r.First.Count }),
	col("total_cases_sd_drug_1", func(r synergy.AnnotatedRecord) interface{} { return r.First.Total }),
	col("total_cases_sd_snomed_drug2", func(r synergy.AnnotatedRecord) interface{} { return r.Second.Count }),
	col("total_cases_sd_drug_2", func(r synergy.AnnotatedRecord) interface{} { return r.Second.Total }),
	col("bliss_independence (y_pred)", func(r synergy.AnnotatedRecord) interface{} { return r.Bliss.Predicted }),
	col("bliss_ratio", func(r synergy.AnnotatedRecord) interface{} { return r.Bliss.Ratio }),
	col("chi2_obs", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.ObsOdds }),
	col("chi2_exp", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.ExpOdds }),
	col("chi2_ratio", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.OddsRatio }),
	col("chi2", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.Statistic }),
	col("p", func(r synergy.AnnotatedRecord) interface{} { return r.Contingency.PValue }),
}

var (
	benchmarkFrequency = col("Frequency in Pharmacotherapeutic compass", func(r synergy.AnnotatedRecord) interface{} { return r.Benchmark })
	minCasesFlag       = col("Minim six cases", func(r synergy.AnnotatedRecord) interface{} { return r.MinCasesFlag() })
	inCompass          = col("In Pharmacotherapeutic compass", func(r synergy.AnnotatedRecord) interface{} { return r.Benchmark })
)

// ColumnsFor returns the output columns of a stage.
func ColumnsFor(spec stage.StageSpec) []Column {
	if spec.Kind == stage.StageKindWorking {
		return WorkingColumns
	}
	cols := append([]Column(nil), PublicationColumns...)
	switch spec.Name {
	case stage.StageBenchmark:
		cols = append(cols, benchmarkFrequency)
	case stage.StageFinal:
		cols = append(cols, minCasesFlag, inCompass)
	}
	return cols
}

// Headers lists the column headers in order.
func Headers(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}
