package signals

import (
	"fmt"
	"io"

	"pvsynergy/domain/faers"
	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"
	"pvsynergy/internal/stats"
)

// Summarize computes the console counts for one stage view.
func Summarize(name stage.StageName, rows []synergy.AnnotatedRecord, alpha float64) stage.Summary {
	s := stage.Summary{Stage: name, TotalRecords: len(rows)}

	combos := make(map[string]struct{})
	reactions := make(map[faers.ReactionID]struct{})
	ratios := make([]float64, 0, len(rows))
	for _, r := range rows {
		if r.CombinationName.Valid {
			combos[r.CombinationName.String] = struct{}{}
		}
		reactions[r.Reaction()] = struct{}{}
		ratios = append(ratios, r.Bliss.Ratio)

		if r.IsBlissSignal() {
			s.BlissAboveOne++
		}
		if r.IsChiSquareSignal(alpha) {
			s.ChiSquareSignificant++
		}
		if name == stage.StageFinal {
			if r.MinCases {
				s.MinCasesRecords++
			}
			if r.Benchmark.Valid {
				s.BenchmarkRecords++
			}
		}
	}
	s.UniqueCombinations = len(combos)
	s.UniqueReactions = len(reactions)

	d := stats.Describe(ratios)
	s.BlissMedian = d.Median
	s.BlissMean = d.Mean
	s.BlissP90 = d.P90
	s.NonFinite = d.NonFinite
	return s
}

// PrintSummary writes the plain-text stage section shown after a run.
func PrintSummary(w io.Writer, s stage.Summary, alpha float64) {
	fmt.Fprintf(w, "---%s---\n", s.Stage.Title())
	fmt.Fprintln(w, "Number of unique drug combinations:", s.UniqueCombinations)
	fmt.Fprintln(w, "Number of unique SNOMED IDs:", s.UniqueReactions)
	fmt.Fprintln(w, "Number of total records:", s.TotalRecords)
	fmt.Fprintln(w, "Number of records with Bliss ratio > 1:", s.BlissAboveOne)
	fmt.Fprintf(w, "Number of records with a chi2 ratio > 1 & p-value < %g: %d\n", alpha, s.ChiSquareSignificant)
	if s.Stage == stage.StageFinal {
		fmt.Fprintln(w, "Number of records in Minim six cases:", s.MinCasesRecords)
		fmt.Fprintln(w, "Number of records in Pharmacotherapeutic compass:", s.BenchmarkRecords)
	}
}
