package synergy

import "fmt"

// BenchmarkBase selects which record set the benchmark view is joined against.
type BenchmarkBase string

const (
	BenchmarkBaseMinCases BenchmarkBase = "min_cases"
	BenchmarkBaseAll      BenchmarkBase = "all"
)

// Params are the analysis knobs of one run.
type Params struct {
	MinCases        int           `json:"min_cases" yaml:"min_cases"`
	YatesCorrection bool          `json:"yates_correction" yaml:"yates_correction"`
	Alpha           float64       `json:"alpha" yaml:"alpha"`
	BenchmarkBase   BenchmarkBase `json:"benchmark_base" yaml:"benchmark_base"`
}

// DefaultParams returns the published methodology: six cases, no continuity
// correction, alpha 0.05.
func DefaultParams() Params {
	return Params{
		MinCases:        6,
		YatesCorrection: false,
		Alpha:           0.05,
		BenchmarkBase:   BenchmarkBaseMinCases,
	}
}

func (p Params) Validate() error {
	if p.MinCases < 0 {
		return fmt.Errorf("min_cases must be >= 0, got %d", p.MinCases)
	}
	if p.Alpha <= 0 || p.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0,1), got %g", p.Alpha)
	}
	switch p.BenchmarkBase {
	case BenchmarkBaseMinCases, BenchmarkBaseAll:
	default:
		return fmt.Errorf("benchmark_base must be %q or %q, got %q", BenchmarkBaseMinCases, BenchmarkBaseAll, p.BenchmarkBase)
	}
	return nil
}

// AsMap flattens the params for hashing.
func (p Params) AsMap() map[string]interface{} {
	return map[string]interface{}{
		"min_cases":        p.MinCases,
		"yates_correction": p.YatesCorrection,
		"alpha":            p.Alpha,
		"benchmark_base":   string(p.BenchmarkBase),
	}
}
