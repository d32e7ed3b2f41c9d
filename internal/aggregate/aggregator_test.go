package aggregate

import (
	"testing"

	"pvsynergy/domain/faers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingles_CountsTotalsAndOrder(t *testing.T) {
	cases := []faers.SingleCase{
		{CaseID: "c1", Drug: 2, Reaction: 200},
		{CaseID: "c2", Drug: 1, Reaction: 100},
		{CaseID: "c3", Drug: 2, Reaction: 100},
		{CaseID: "c4", Drug: 2, Reaction: 200},
		{CaseID: "c5", Drug: 1, Reaction: 100},
	}

	cells, err := Singles(cases)
	require.NoError(t, err)
	require.Len(t, cells, 3)

	assert.Equal(t, faers.DrugID(1), cells[0].Drug)
	assert.Equal(t, []string{"c2", "c5"}, cells[0].CaseIDs)
	assert.Equal(t, 2, cells[0].Count)
	assert.Equal(t, 2, cells[0].Total)
	assert.Equal(t, 1.0, cells[0].RelFreq)

	assert.Equal(t, faers.ReactionID(100), cells[1].Reaction)
	assert.Equal(t, 1, cells[1].Count)
	assert.Equal(t, 3, cells[1].Total)
	assert.Equal(t, 0.33333, cells[1].RelFreq)

	assert.Equal(t, faers.ReactionID(200), cells[2].Reaction)
	assert.Equal(t, []string{"c1", "c4"}, cells[2].CaseIDs)
	assert.Equal(t, 0.66667, cells[2].RelFreq)
}

func TestSingles_TotalsMatchSumOfCounts(t *testing.T) {
	var cases []faers.SingleCase
	for i := 0; i < 40; i++ {
		cases = append(cases, faers.SingleCase{
			CaseID:   "c",
			Drug:     faers.DrugID(i % 3),
			Reaction: faers.ReactionID(i % 7),
		})
	}

	cells, err := Singles(cases)
	require.NoError(t, err)

	sums := map[faers.DrugID]int{}
	for _, c := range cells {
		sums[c.Drug] += c.Count
		assert.GreaterOrEqual(t, c.RelFreq, 0.0)
		assert.LessOrEqual(t, c.RelFreq, 1.0)
	}
	for _, c := range cells {
		assert.Equal(t, sums[c.Drug], c.Total)
	}
}

func TestCombinations_CanonicalPairsShareCells(t *testing.T) {
	a, err := faers.ParseDrugPair("7&3")
	require.NoError(t, err)
	b, err := faers.ParseDrugPair("3&7")
	require.NoError(t, err)
	c, err := faers.ParseDrugPair("1&10")
	require.NoError(t, err)

	cells, err := Combinations([]faers.CombinationCase{
		{CaseID: "m1", Pair: a, Reaction: 5},
		{CaseID: "m2", Pair: b, Reaction: 5},
		{CaseID: "m3", Pair: c, Reaction: 9},
		{CaseID: "m4", Pair: b, Reaction: 1},
	})
	require.NoError(t, err)
	require.Len(t, cells, 3)

	assert.Equal(t, faers.NewDrugPair(1, 10), cells[0].Pair)
	assert.Equal(t, faers.NewDrugPair(3, 7), cells[1].Pair)
	assert.Equal(t, faers.ReactionID(1), cells[1].Reaction)
	assert.Equal(t, faers.ReactionID(5), cells[2].Reaction)
	assert.Equal(t, []string{"m1", "m2"}, cells[2].CaseIDs)
	assert.Equal(t, 3, cells[2].Total)
	assert.Equal(t, 0.66667, cells[2].RelFreq)
}

func TestAggregate_Empty(t *testing.T) {
	s, err := Singles(nil)
	require.NoError(t, err)
	assert.Empty(t, s)

	m, err := Combinations(nil)
	require.NoError(t, err)
	assert.Empty(t, m)
}
