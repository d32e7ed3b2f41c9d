package signals

import (
	"bytes"
	"math"
	"testing"

	"pvsynergy/domain/faers"
	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"
	"pvsynergy/internal/aggregate"
	"pvsynergy/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinSmallSet(t *testing.T) (JoinResult, faers.Inputs) {
	t.Helper()
	in := testkit.SmallSet().Inputs()
	singles, err := aggregate.Singles(in.SingleCases)
	require.NoError(t, err)
	combos, err := aggregate.Combinations(in.CombinationCases)
	require.NoError(t, err)
	return NewJoiner(in.Drugs, in.Reactions, false).Join(singles, combos), in
}

func TestJoin_DropsMissingSingles(t *testing.T) {
	res, _ := joinSmallSet(t)
	require.Len(t, res.Records, 5)
	assert.Equal(t, 1, res.Dropped)

	for i, rec := range res.Records {
		assert.Equal(t, i, rec.Index)
		assert.Equal(t, rec.Combination.Pair.First, rec.First.Drug)
		assert.Equal(t, rec.Combination.Pair.Second, rec.Second.Drug)
		assert.Equal(t, rec.Reaction(), rec.First.Reaction)
		assert.Equal(t, rec.Reaction(), rec.Second.Reaction)
		assert.GreaterOrEqual(t, rec.Contingency.MDWithout, 0)
	}
}

func TestJoin_WorkedExample(t *testing.T) {
	res, _ := joinSmallSet(t)
	rec := res.Records[0]

	assert.Equal(t, faers.NewDrugPair(testkit.Aspirin, testkit.Warfarin), rec.Combination.Pair)
	assert.Equal(t, synergy.SomeString("aspirin & warfarin"), rec.CombinationName)
	assert.Equal(t, synergy.SomeString("Haemorrhage"), rec.PreferredTermName)
	assert.Equal(t, 0.42, rec.Combination.RelFreq)
	assert.Equal(t, 0.1, rec.First.RelFreq)
	assert.Equal(t, 0.2, rec.Second.RelFreq)
	assert.Equal(t, 0.28, rec.Bliss.Predicted)
	assert.Equal(t, 1.5, rec.Bliss.Ratio)

	c := rec.Contingency
	assert.Equal(t, synergy.Table2x2{{21, 29}, {12, 78}}, c.Observed)
	assert.InDelta(t, 14.662135, c.Statistic, 1e-5)
	assert.InDelta(t, 0.000128604, c.PValue, 1e-8)
	assert.Equal(t, 1, c.DOF)
}

func TestJoin_NullableNames(t *testing.T) {
	res, _ := joinSmallSet(t)
	rec := res.Records[4]

	assert.True(t, rec.DrugName1.Valid)
	assert.False(t, rec.DrugName2.Valid)
	assert.False(t, rec.CombinationName.Valid)
	assert.True(t, math.IsInf(rec.Contingency.ObsOdds, 1))
}

func TestBuildViews_MinCasesBase(t *testing.T) {
	res, in := joinSmallSet(t)
	v := BuildViews(res.Records, in.Benchmark, synergy.DefaultParams())

	assert.Len(t, v.All, 5)
	assert.Len(t, v.Final, 5)
	assert.Equal(t, []int{0, 1, 3}, indices(v.MinCases))
	assert.Equal(t, []int{0, 3}, indices(v.Benchmark))

	for _, r := range v.MinCases {
		assert.True(t, r.MeetsMinCases(6))
	}
	assert.Equal(t, synergy.SomeFloat(0.3), v.Benchmark[0].Benchmark)
	assert.Equal(t, synergy.SomeFloat(0.05), v.Benchmark[1].Benchmark)

	assert.Equal(t, "Y", v.Final[0].MinCasesFlag())
	assert.Equal(t, "N", v.Final[2].MinCasesFlag())
	assert.Equal(t, synergy.SomeFloat(0.07), v.Final[2].Benchmark)
	assert.False(t, v.Final[4].Benchmark.Valid)
}

func TestBuildViews_AllBase(t *testing.T) {
	res, in := joinSmallSet(t)
	params := synergy.DefaultParams()
	params.BenchmarkBase = synergy.BenchmarkBaseAll

	v := BuildViews(res.Records, in.Benchmark, params)
	assert.Equal(t, []int{0, 2, 3}, indices(v.Benchmark))
}

func TestBuildViews_ViewsShareRecords(t *testing.T) {
	res, in := joinSmallSet(t)
	v := BuildViews(res.Records, in.Benchmark, synergy.DefaultParams())

	assert.Same(t, v.All[3].Record, v.MinCases[2].Record)
	assert.Same(t, v.All[3].Record, v.Benchmark[1].Record)

	rows, ok := v.Stage(stage.StageBenchmark)
	require.True(t, ok)
	assert.Len(t, rows, 2)
	_, ok = v.Stage("unknown")
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	res, in := joinSmallSet(t)
	v := BuildViews(res.Records, in.Benchmark, synergy.DefaultParams())

	all := Summarize(stage.StageInitial, v.All, 0.05)
	assert.Equal(t, 2, all.UniqueCombinations)
	assert.Equal(t, 2, all.UniqueReactions)
	assert.Equal(t, 5, all.TotalRecords)
	assert.Equal(t, 2, all.BlissAboveOne)
	assert.Equal(t, 3, all.ChiSquareSignificant)
	assert.Zero(t, all.MinCasesRecords)

	min := Summarize(stage.StageMinCases, v.MinCases, 0.05)
	assert.Equal(t, 3, min.TotalRecords)
	assert.Equal(t, 1, min.BlissAboveOne)
	assert.Equal(t, 1, min.ChiSquareSignificant)

	final := Summarize(stage.StageFinal, v.Final, 0.05)
	assert.Equal(t, 3, final.MinCasesRecords)
	assert.Equal(t, 3, final.BenchmarkRecords)
	assert.Equal(t, 1.0, final.BlissMedian)
}

func TestSummarize_MatchesRecount(t *testing.T) {
	set, err := testkit.NewFAERSDataGenerator(testkit.DefaultFAERSConfig()).Generate()
	require.NoError(t, err)
	in := set.Inputs()
	singles, err := aggregate.Singles(in.SingleCases)
	require.NoError(t, err)
	combos, err := aggregate.Combinations(in.CombinationCases)
	require.NoError(t, err)
	res := NewJoiner(in.Drugs, in.Reactions, false).Join(singles, combos)
	v := BuildViews(res.Records, in.Benchmark, synergy.DefaultParams())

	s := Summarize(stage.StageMinCases, v.MinCases, 0.05)

	names := map[string]bool{}
	reactions := map[faers.ReactionID]bool{}
	bliss := 0
	for _, r := range v.MinCases {
		names[r.CombinationName.String] = true
		reactions[r.Reaction()] = true
		if r.Bliss.Ratio > 1 {
			bliss++
		}
	}
	assert.Equal(t, len(names), s.UniqueCombinations)
	assert.Equal(t, len(reactions), s.UniqueReactions)
	assert.Equal(t, len(v.MinCases), s.TotalRecords)
	assert.Equal(t, bliss, s.BlissAboveOne)
	assert.LessOrEqual(t, len(v.Benchmark), len(v.MinCases))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, stage.Summary{
		Stage:            stage.StageFinal,
		TotalRecords:     5,
		MinCasesRecords:  3,
		BenchmarkRecords: 2,
	}, 0.05)

	out := buf.String()
	assert.Contains(t, out, "---Final dataset---\n")
	assert.Contains(t, out, "Number of total records: 5\n")
	assert.Contains(t, out, "p-value < 0.05: 0\n")
	assert.Contains(t, out, "Number of records in Minim six cases: 3\n")
	assert.Contains(t, out, "Number of records in Pharmacotherapeutic compass: 2\n")
}

func indices(rows []synergy.AnnotatedRecord) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Index)
	}
	return out
}
