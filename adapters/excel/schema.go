package excel

// Column names of the input tables.
const (
	ColCaseID        = "case_id"
	ColExposure      = "tox_drug_id_y"
	ColReaction      = "snomed_reaction"
	ColDrugID        = "id"
	ColDrugName      = "name"
	ColPreferred     = "meddra_preferred_term_name"
	ColHighLevel     = "meddra_high_level_term"
	ColHighLevelName = "meddra_high_level_term_name"
	ColCombination   = "combination"
	ColBenchSnomed   = "snomed_id"
	ColBenchFreq     = "bench_freq"
)

// InputKind names one of the five input tables of a run.
type InputKind string

const (
	InputMultiDrug  InputKind = "multi_drug"
	InputSingleDrug InputKind = "single_drug"
	InputDrugs      InputKind = "drugs"
	InputReactions  InputKind = "reactions"
	InputBenchmark  InputKind = "benchmark"
)

// InputKinds lists every input table in load order.
var InputKinds = []InputKind{InputMultiDrug, InputSingleDrug, InputDrugs, InputReactions, InputBenchmark}

// RequiredColumns are the columns each input table must carry. Extra columns
// are ignored.
var RequiredColumns = map[InputKind][]string{
	InputMultiDrug:  {ColExposure, ColReaction, ColCaseID},
	InputSingleDrug: {ColExposure, ColReaction, ColCaseID},
	InputDrugs:      {ColDrugID, ColDrugName},
	InputReactions:  {ColReaction, ColPreferred, ColHighLevel, ColHighLevelName},
	InputBenchmark:  {ColCombination, ColBenchSnomed, ColBenchFreq},
}
