package config

import (
	"os"
	"path/filepath"
	"testing"

	"pvsynergy/domain/synergy"
	"pvsynergy/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"LOG_LEVEL", "DATABASE_URL", "PORT", "GIN_MODE"} {
		t.Setenv(k, "")
	}

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, synergy.DefaultParams(), c.Params())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output:
  dir: results
  xlsx: true
analysis:
  min_cases: 3
  yates_correction: true
  benchmark_base: all
`), 0o644))

	t.Setenv("PVSYNERGY_ANALYSIS_MIN_CASES", "10")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "results", c.Output.Dir)
	assert.True(t, c.Output.XLSX)
	assert.Equal(t, 10, c.Analysis.MinCases)
	assert.True(t, c.Analysis.YatesCorrection)
	assert.Equal(t, synergy.BenchmarkBaseAll, c.Params().BenchmarkBase)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, Default().Input, c.Input)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"empty input":      func(c *Config) { c.Input.Benchmark = " " },
		"empty output":     func(c *Config) { c.Output.Dir = "" },
		"bad alpha":        func(c *Config) { c.Analysis.Alpha = 1.5 },
		"bad base":         func(c *Config) { c.Analysis.BenchmarkBase = "everything" },
		"unknown driver":   func(c *Config) { c.Store.Driver = "mysql" },
		"driver needs dsn": func(c *Config) { c.Store.Driver = DriverSQLite },
		"bad log format":   func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}

	c := Default()
	c.Store = StoreConfig{Driver: DriverSQLite, DSN: "file:results.db"}
	assert.NoError(t, c.Validate())
}

func TestSave_RoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())

	c := Default()
	c.Analysis.MinCases = 4
	require.NoError(t, Save(c, "saved.yaml"))

	loaded, err := Load("saved.yaml")
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Analysis.MinCases)
}
