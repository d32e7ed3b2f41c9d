package config

import (
	"fmt"
	"os"
	"strings"

	"pvsynergy/domain/synergy"
	"pvsynergy/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. PVSYNERGY_OUTPUT_DIR.
const EnvPrefix = "PVSYNERGY"

// DefaultConfigFile is looked up in the working directory when no file is given.
const DefaultConfigFile = "pvsynergy.yaml"

// Config represents the complete application configuration
type Config struct {
	Input    InputConfig    `mapstructure:"input" yaml:"input"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// InputConfig holds the paths of the five input tables (CSV or XLSX)
type InputConfig struct {
	MultiDrug  string `mapstructure:"multi_drug" yaml:"multi_drug"`
	SingleDrug string `mapstructure:"single_drug" yaml:"single_drug"`
	Drugs      string `mapstructure:"drugs" yaml:"drugs"`
	Reactions  string `mapstructure:"reactions" yaml:"reactions"`
	Benchmark  string `mapstructure:"benchmark" yaml:"benchmark"`
}

// OutputConfig controls where and what a run writes
type OutputConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	XLSX   bool   `mapstructure:"xlsx" yaml:"xlsx"`
	Report bool   `mapstructure:"report" yaml:"report"`
}

// AnalysisConfig holds the statistical parameters
type AnalysisConfig struct {
	MinCases        int     `mapstructure:"min_cases" yaml:"min_cases"`
	YatesCorrection bool    `mapstructure:"yates_correction" yaml:"yates_correction"`
	Alpha           float64 `mapstructure:"alpha" yaml:"alpha"`
	BenchmarkBase   string  `mapstructure:"benchmark_base" yaml:"benchmark_base"`
}

// StoreConfig selects the optional result store. An empty driver keeps results
// in files only.
type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // "", "postgres" or "sqlite"
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
	Debug  bool   `mapstructure:"debug" yaml:"debug"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `mapstructure:"port" yaml:"port"`
	GinMode string `mapstructure:"gin_mode" yaml:"gin_mode"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Store drivers
const (
	DriverNone     = ""
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Default returns the configuration used when nothing overrides it. Paths follow
// the data/ layout of a checked-out analysis.
func Default() *Config {
	p := synergy.DefaultParams()
	return &Config{
		Input: InputConfig{
			MultiDrug:  "data/01_md_data_init.csv",
			SingleDrug: "data/01_sd_data_init.csv",
			Drugs:      "data/01_drugs_ids.csv",
			Reactions:  "data/01_snomed_ids.csv",
			Benchmark:  "data/01_kompas_benchmark_data_drug_ids.csv",
		},
		Output: OutputConfig{Dir: "data"},
		Analysis: AnalysisConfig{
			MinCases:        p.MinCases,
			YatesCorrection: p.YatesCorrection,
			Alpha:           p.Alpha,
			BenchmarkBase:   string(p.BenchmarkBase),
		},
		Server: ServerConfig{Port: "8080", GinMode: "release"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// LoadEnvFile loads .env from the working directory if it exists.
func LoadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

// Load reads configuration with precedence env > config file > defaults. An
// explicit cfgFile must exist; otherwise DefaultConfigFile is read when present.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, Default())

	// conventional unprefixed variables
	_ = v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("store.dsn", EnvPrefix+"_STORE_DSN", "DATABASE_URL")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.gin_mode", EnvPrefix+"_SERVER_GIN_MODE", "GIN_MODE")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "read config %s", cfgFile)
		}
	} else if _, err := os.Stat(DefaultConfigFile); err == nil {
		v.SetConfigFile(DefaultConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "read config %s", DefaultConfigFile)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("input.multi_drug", d.Input.MultiDrug)
	v.SetDefault("input.single_drug", d.Input.SingleDrug)
	v.SetDefault("input.drugs", d.Input.Drugs)
	v.SetDefault("input.reactions", d.Input.Reactions)
	v.SetDefault("input.benchmark", d.Input.Benchmark)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.xlsx", d.Output.XLSX)
	v.SetDefault("output.report", d.Output.Report)

	v.SetDefault("analysis.min_cases", d.Analysis.MinCases)
	v.SetDefault("analysis.yates_correction", d.Analysis.YatesCorrection)
	v.SetDefault("analysis.alpha", d.Analysis.Alpha)
	v.SetDefault("analysis.benchmark_base", d.Analysis.BenchmarkBase)

	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.dsn", d.Store.DSN)
	v.SetDefault("store.debug", d.Store.Debug)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.gin_mode", d.Server.GinMode)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Params converts the analysis section into pipeline parameters.
func (c *Config) Params() synergy.Params {
	return synergy.Params{
		MinCases:        c.Analysis.MinCases,
		YatesCorrection: c.Analysis.YatesCorrection,
		Alpha:           c.Analysis.Alpha,
		BenchmarkBase:   synergy.BenchmarkBase(c.Analysis.BenchmarkBase),
	}
}

// Validate rejects incomplete or inconsistent settings with CONFIG_INVALID.
func (c *Config) Validate() error {
	for name, path := range map[string]string{
		"input.multi_drug":  c.Input.MultiDrug,
		"input.single_drug": c.Input.SingleDrug,
		"input.drugs":       c.Input.Drugs,
		"input.reactions":   c.Input.Reactions,
		"input.benchmark":   c.Input.Benchmark,
	} {
		if strings.TrimSpace(path) == "" {
			return errors.ConfigInvalid(name + " is required")
		}
	}
	if c.Output.Dir == "" {
		return errors.ConfigInvalid("output.dir is required")
	}
	if err := c.Params().Validate(); err != nil {
		return errors.ConfigInvalid("analysis: " + err.Error())
	}

	switch c.Store.Driver {
	case DriverNone:
	case DriverPostgres, DriverSQLite:
		if c.Store.DSN == "" {
			return errors.ConfigInvalid(fmt.Sprintf("store.dsn is required for driver %q", c.Store.Driver))
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown store.driver %q", c.Store.Driver))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	return nil
}

// Save writes c as YAML to path.
func Save(c *Config, path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
