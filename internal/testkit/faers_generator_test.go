package testkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFAERSDataGenerator_Basic(t *testing.T) {
	config := DefaultFAERSConfig()
	config.DrugCount = 6
	config.ReactionCount = 5
	config.CombinationCount = 4
	config.CasesPerDrug = 50
	config.CasesPerCombination = 20

	set, err := NewFAERSDataGenerator(config).Generate()
	require.NoError(t, err)

	assert.Len(t, set.Drugs, 6)
	assert.Len(t, set.Reactions, 5)
	assert.Len(t, set.SingleCases, 6*50)
	assert.Len(t, set.CombinationCases, 4*20)

	for _, c := range set.CombinationCases {
		assert.Less(t, c.Pair.First, c.Pair.Second, "pair %s not canonical", c.Pair)
	}
}

func TestFAERSDataGenerator_Deterministic(t *testing.T) {
	a, err := NewFAERSDataGenerator(DefaultFAERSConfig()).Generate()
	require.NoError(t, err)
	b, err := NewFAERSDataGenerator(DefaultFAERSConfig()).Generate()
	require.NoError(t, err)

	assert.Equal(t, a.SingleCases, b.SingleCases)
	assert.Equal(t, a.CombinationCases, b.CombinationCases)
	assert.Equal(t, a.Benchmark, b.Benchmark)
}

func TestFAERSDataGenerator_RejectsTooFewDrugs(t *testing.T) {
	config := DefaultFAERSConfig()
	config.DrugCount = 1
	_, err := NewFAERSDataGenerator(config).Generate()
	assert.Error(t, err)
}

func TestFAERSDataGenerator_CombinationsCappedByPairs(t *testing.T) {
	config := DefaultFAERSConfig()
	config.DrugCount = 3
	config.CombinationCount = 50
	config.CasesPerCombination = 1

	set, err := NewFAERSDataGenerator(config).Generate()
	require.NoError(t, err)
	assert.Len(t, set.CombinationCases, 3)
}

func TestGeneratedSet_WriteCSV(t *testing.T) {
	dir := t.TempDir()
	files, err := SmallSet().WriteCSV(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(files.MultiDrug)
	require.NoError(t, err)
	assert.Contains(t, string(data), "case_id,tox_drug_id_y,snomed_reaction\n")
	assert.Contains(t, string(data), ",1&2,100\n")

	for _, p := range []string{files.SingleDrug, files.Drugs, files.Reactions, files.Benchmark} {
		_, err := os.Stat(p)
		assert.NoError(t, err)
		assert.Equal(t, dir, filepath.Dir(p))
	}
}

func TestSmallSet_Shape(t *testing.T) {
	set := SmallSet()
	in := set.Inputs()

	name, ok := in.Drugs.Name(Aspirin)
	require.True(t, ok)
	assert.Equal(t, "aspirin", name)
	_, ok = in.Drugs.Name(Unnamed)
	assert.False(t, ok)

	assert.Len(t, set.SingleCases, 105)
	assert.Len(t, set.CombinationCases, 65)
	assert.Equal(t, 3, in.Benchmark.Len())
}
