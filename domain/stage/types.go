package stage

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"pvsynergy/domain/core"
)

// StageName represents a named output stage of the synergy pipeline
type StageName string

// StageKind categorizes stages by the view they persist
type StageKind string

const (
	StageKindWorking     StageKind = "working"     // full working columns
	StageKindPublication StageKind = "publication" // publication columns
)

// Predefined stage names, in execution order
const (
	StageInitial   StageName = "initial"
	StageMinCases  StageName = "min_cases"
	StageBenchmark StageName = "benchmark"
	StageFinal     StageName = "final"
)

// Titles match the section headers of the console summary.
var titles = map[StageName]string{
	StageInitial:   "Initial data",
	StageMinCases:  "Data with a minimum of six cases in MD and SD",
	StageBenchmark: "Benchmark dataset",
	StageFinal:     "Final dataset",
}

// Title returns the console section title for a stage.
func (n StageName) Title() string {
	if t, ok := titles[n]; ok {
		return t
	}
	return string(n)
}

// ParseStageName accepts a stage name or its output file prefix ("02".."05").
func ParseStageName(s string) (StageName, error) {
	for _, spec := range DefaultPlan().Stages {
		if string(spec.Name) == s || spec.Prefix == s {
			return spec.Name, nil
		}
	}
	return "", fmt.Errorf("%w: %s", core.ErrStageNotFound, s)
}

// StageSpec defines a single persisted stage
type StageSpec struct {
	Name       StageName `json:"name" yaml:"name"`
	Kind       StageKind `json:"kind" yaml:"kind"`
	Prefix     string    `json:"prefix" yaml:"prefix"`
	OutputFile string    `json:"output_file" yaml:"output_file"`

	// KeepIndex writes each record's position in the initial set instead of
	// renumbering from 0.
	KeepIndex bool `json:"keep_index" yaml:"keep_index"`
}

// StagePlan represents the ordered list of stages written by a run
type StagePlan struct {
	Stages []StageSpec `json:"stages" yaml:"stages"`
}

// DefaultPlan returns the four versioned outputs of a run.
func DefaultPlan() *StagePlan {
	return &StagePlan{Stages: []StageSpec{
		{Name: StageInitial, Kind: StageKindWorking, Prefix: "02", OutputFile: "02_data_init_bliss_chi.csv", KeepIndex: true},
		{Name: StageMinCases, Kind: StageKindPublication, Prefix: "03", OutputFile: "03_data_init_bliss_chi_min6.csv", KeepIndex: true},
		{Name: StageBenchmark, Kind: StageKindPublication, Prefix: "04", OutputFile: "04_data_init_bliss_chi_bench.csv"},
		{Name: StageFinal, Kind: StageKindPublication, Prefix: "05", OutputFile: "05_data_final.csv"},
	}}
}

// Spec returns the spec for name.
func (p *StagePlan) Spec(name StageName) (StageSpec, bool) {
	for _, s := range p.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageSpec{}, false
}

// Hash computes a deterministic hash of the stage plan. Order is significant.
func (p *StagePlan) Hash() core.StageListHash {
	data, _ := json.Marshal(p.Stages)
	sum := sha256.Sum256(data)
	return core.StageListHash(fmt.Sprintf("%x", sum))
}

// Validate checks if the stage plan is valid
func (p *StagePlan) Validate() error {
	if len(p.Stages) == 0 {
		return fmt.Errorf("stage plan must contain at least one stage")
	}

	seenNames := make(map[StageName]bool)
	seenFiles := make(map[string]bool)
	for _, s := range p.Stages {
		if s.Name == "" {
			return fmt.Errorf("stage name cannot be empty")
		}
		if seenNames[s.Name] {
			return fmt.Errorf("duplicate stage name: %s", s.Name)
		}
		if seenFiles[s.OutputFile] {
			return fmt.Errorf("duplicate stage output: %s", s.OutputFile)
		}
		seenNames[s.Name] = true
		seenFiles[s.OutputFile] = true
	}
	return nil
}

// Summary holds the counts printed after each stage.
type Summary struct {
	Stage                StageName `json:"stage" yaml:"stage"`
	UniqueCombinations   int       `json:"unique_combinations" yaml:"unique_combinations"`
	UniqueReactions      int       `json:"unique_reactions" yaml:"unique_reactions"`
	TotalRecords         int       `json:"total_records" yaml:"total_records"`
	BlissAboveOne        int       `json:"bliss_above_one" yaml:"bliss_above_one"`
	ChiSquareSignificant int       `json:"chi_square_significant" yaml:"chi_square_significant"`
	MinCasesRecords      int       `json:"min_cases_records,omitempty" yaml:"min_cases_records,omitempty"`
	BenchmarkRecords     int       `json:"benchmark_records,omitempty" yaml:"benchmark_records,omitempty"`

	// Distribution of finite bliss ratios; zero when no finite ratio exists.
	BlissMedian float64 `json:"bliss_median" yaml:"bliss_median"`
	BlissMean   float64 `json:"bliss_mean" yaml:"bliss_mean"`
	BlissP90    float64 `json:"bliss_p90" yaml:"bliss_p90"`
	NonFinite   int     `json:"non_finite_ratios" yaml:"non_finite_ratios"`
}

// Result is one executed and persisted stage.
type Result struct {
	Spec       StageSpec `json:"spec" yaml:"spec"`
	Summary    Summary   `json:"summary" yaml:"summary"`
	OutputPath string    `json:"output_path" yaml:"output_path"`
	OutputHash core.Hash `json:"output_hash" yaml:"output_hash"`
	DurationMs int64     `json:"duration_ms" yaml:"duration_ms"`
}
