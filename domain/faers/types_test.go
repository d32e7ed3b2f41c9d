package faers

import (
	"errors"
	"testing"

	"pvsynergy/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDrugPair_Canonical(t *testing.T) {
	p, err := ParseDrugPair("7&3")
	require.NoError(t, err)
	assert.Equal(t, DrugPair{First: 3, Second: 7}, p)
	assert.Equal(t, "3&7", p.String())

	q, err := ParseDrugPair(" 3 & 7 ")
	require.NoError(t, err)
	assert.Equal(t, p, q)
}

func TestParseDrugPair_Malformed(t *testing.T) {
	for _, in := range []string{"", "12", "1&2&3", "a&2", "1&", "&2", "1.5&2"} {
		_, err := ParseDrugPair(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, core.ErrMalformedKey), "input %q", in)
		assert.True(t, core.IsInputShapeError(err))
	}
}

func TestDrugPair_Less(t *testing.T) {
	assert.True(t, NewDrugPair(1, 9).Less(NewDrugPair(2, 3)))
	assert.True(t, NewDrugPair(2, 3).Less(NewDrugPair(2, 4)))
	assert.False(t, NewDrugPair(2, 4).Less(NewDrugPair(2, 4)))
}

func TestCombinationKey_OrderInsensitive(t *testing.T) {
	assert.Equal(t, CombinationKey("warfarin & aspirin"), CombinationKey("aspirin & warfarin"))
	assert.Equal(t, "aspirin & warfarin", CombinationKey("warfarin & aspirin"))
	assert.Equal(t, "single", CombinationKey(" single "))
}

func TestDrugIndex_FirstOccurrenceWins(t *testing.T) {
	idx := NewDrugIndex([]Drug{{ID: 1, Name: "aspirin"}, {ID: 1, Name: "ASA"}, {ID: 2, Name: "warfarin"}})
	name, ok := idx.Name(1)
	assert.True(t, ok)
	assert.Equal(t, "aspirin", name)
	assert.Equal(t, 2, idx.Len())

	_, ok = idx.Name(99)
	assert.False(t, ok)
}

func TestReactionIndex_FirstOccurrenceWins(t *testing.T) {
	idx := NewReactionIndex([]Reaction{
		{ID: 100, PreferredTermName: "Haemorrhage"},
		{ID: 100, PreferredTermName: "Bleeding"},
	})
	r, ok := idx.Lookup(100)
	require.True(t, ok)
	assert.Equal(t, "Haemorrhage", r.PreferredTermName)
	assert.Equal(t, 1, idx.Len())
}

func TestBenchmarkIndex(t *testing.T) {
	idx := NewBenchmarkIndex([]BenchmarkEntry{
		{Combination: "aspirin & warfarin", Reaction: 100, Frequency: 0.1},
		{Combination: "warfarin & aspirin", Reaction: 100, Frequency: 0.3},
		{Combination: "aspirin & warfarin", Reaction: 100, Frequency: 0.1},
		{Combination: "aspirin & warfarin", Reaction: 200, Frequency: 0.2},
	})

	f, ok := idx.Lookup("warfarin & aspirin", 100)
	require.True(t, ok)
	assert.Equal(t, 0.1, f)
	assert.Equal(t, 2, idx.Len())

	require.Len(t, idx.Conflicts(), 1)
	assert.Equal(t, 0.3, idx.Conflicts()[0].Dropped)

	_, ok = idx.Lookup("aspirin & warfarin", 300)
	assert.False(t, ok)
}
