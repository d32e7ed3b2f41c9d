// Package report renders a finished run as Markdown and HTML.
package report

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"pvsynergy/domain/run"
	"pvsynergy/domain/synergy"
	apperrors "pvsynergy/internal/errors"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Output file names inside the run directory.
const (
	MarkdownFile = "report.md"
	HTMLFile     = "report.html"
)

// DefaultTopN is the number of signals listed when Options leaves it unset.
const DefaultTopN = 20

type Options struct {
	TopN int
}

// Signal is one row of the top-signals table.
type Signal struct {
	Index       int
	Combination string
	Reaction    string
	MDCases     int
	YObs        float64
	YPred       float64
	BlissRatio  float64
	Chi2Ratio   float64
	P           float64
	Benchmark   synergy.NullFloat
}

// Report is a run manifest plus its strongest signals.
type Report struct {
	Manifest *run.Manifest
	Top      []Signal
}

// Build ranks the min-cases rows of the final dataset by bliss ratio,
// strongest first. Rows with a non-finite ratio are left out.
func Build(m *run.Manifest, final []synergy.AnnotatedRecord, opts Options) *Report {
	n := opts.TopN
	if n <= 0 {
		n = DefaultTopN
	}

	top := []Signal{}
	for _, r := range final {
		if !r.MinCases || !synergy.IsFinite(r.Bliss.Ratio) {
			continue
		}
		top = append(top, Signal{
			Index:       r.Index,
			Combination: orElse(r.CombinationName, r.Combination.Pair.String()),
			Reaction:    orElse(r.PreferredTermName, r.Reaction().String()),
			MDCases:     r.Combination.Count,
			YObs:        r.Combination.RelFreq,
			YPred:       r.Bliss.Predicted,
			BlissRatio:  r.Bliss.Ratio,
			Chi2Ratio:   r.Contingency.OddsRatio,
			P:           r.Contingency.PValue,
			Benchmark:   r.Benchmark,
		})
	}
	slices.SortStableFunc(top, func(a, b Signal) int {
		return cmp.Or(cmp.Compare(b.BlissRatio, a.BlissRatio), cmp.Compare(a.Index, b.Index))
	})
	if len(top) > n {
		top = top[:n]
	}
	return &Report{Manifest: m, Top: top}
}

// Markdown renders the report. A nil Top renders the run summary only.
func (r *Report) Markdown() string {
	m := r.Manifest
	var b strings.Builder

	fmt.Fprintf(&b, "# Synergy run %s\n\n", m.RunID)
	fmt.Fprintf(&b, "Created %s. Fingerprint `%s`, code version %s.\n\n",
		m.CreatedAt, m.Fingerprint.Fingerprint.Short(), m.Fingerprint.CodeVersion)

	b.WriteString("## Parameters\n\n")
	fmt.Fprintf(&b, "- Minimum cases: %d\n", m.Params.MinCases)
	fmt.Fprintf(&b, "- Yates correction: %t\n", m.Params.YatesCorrection)
	fmt.Fprintf(&b, "- Alpha: %g\n", m.Params.Alpha)
	fmt.Fprintf(&b, "- Benchmark base: %s\n\n", m.Params.BenchmarkBase)

	if len(m.Inputs) > 0 {
		b.WriteString("## Inputs\n\n")
		b.WriteString("| Input | Path | Rows | SHA-256 |\n|---|---|---:|---|\n")
		names := make([]string, 0, len(m.Inputs))
		for name := range m.Inputs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			in := m.Inputs[name]
			fmt.Fprintf(&b, "| %s | %s | %d | `%s` |\n", name, cell(in.Path), in.Rows, in.Hash.Short())
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Joined records: %d (dropped by join: %d).\n\n", m.Counts.JoinedRecords, m.Counts.DroppedByJoin)

	if len(m.Stages) > 0 {
		b.WriteString("## Stages\n\n")
		b.WriteString("| Stage | Combinations | Reactions | Records | Bliss > 1 | Chi-square significant | Median bliss | Output |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---:|---|\n")
		for _, s := range m.Stages {
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %d | %.4g | %s |\n",
				s.Spec.Name.Title(), s.Summary.UniqueCombinations, s.Summary.UniqueReactions,
				s.Summary.TotalRecords, s.Summary.BlissAboveOne, s.Summary.ChiSquareSignificant,
				s.Summary.BlissMedian, filepath.Base(s.OutputPath))
		}
		b.WriteString("\n")
	}

	if r.Top == nil {
		return b.String()
	}

	fmt.Fprintf(&b, "## Top signals by bliss ratio\n\n")
	if len(r.Top) == 0 {
		b.WriteString("No record meets the minimum case count with a finite bliss ratio.\n")
		return b.String()
	}
	b.WriteString("| # | Combination | Reaction | MD cases | y_obs | y_pred | Bliss ratio | Chi-square ratio | p | Benchmark |\n")
	b.WriteString("|---:|---|---|---:|---:|---:|---:|---:|---:|---:|\n")
	for i, s := range r.Top {
		bench := "-"
		if s.Benchmark.Valid {
			bench = fmt.Sprintf("%.4g", s.Benchmark.Float64)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %.4g | %.4g | %.4g | %.4g | %.3g | %s |\n",
			i+1, cell(s.Combination), cell(s.Reaction), s.MDCases, s.YObs, s.YPred,
			s.BlissRatio, s.Chi2Ratio, s.P, bench)
	}
	return b.String()
}

// HTML renders the Markdown as a complete HTML page.
func (r *Report) HTML() []byte {
	return ToHTML(r.Markdown(), fmt.Sprintf("Synergy run %s", r.Manifest.RunID))
}

// ToHTML converts Markdown to a standalone HTML page.
func ToHTML(md, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// Write saves the Markdown and HTML renderings into dir and returns their paths.
func Write(dir string, r *Report) ([]string, error) {
	mdPath := filepath.Join(dir, MarkdownFile)
	htmlPath := filepath.Join(dir, HTMLFile)

	md := r.Markdown()
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return nil, apperrors.OutputError(mdPath, err)
	}
	page := ToHTML(md, fmt.Sprintf("Synergy run %s", r.Manifest.RunID))
	if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
		return nil, apperrors.OutputError(htmlPath, err)
	}
	return []string{mdPath, htmlPath}, nil
}

func orElse(n synergy.NullString, fallback string) string {
	if n.Valid && n.String != "" {
		return n.String
	}
	return fallback
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
