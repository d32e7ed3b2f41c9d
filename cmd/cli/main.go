package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pvsynergy/internal/config"
	"pvsynergy/internal/logging"

	"github.com/spf13/cobra"
)

// global flags
var (
	cfgFile   string
	logLevel  string
	logFormat string
)

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pvsynergy",
		Short:         "Drug-drug interaction signals from FAERS case counts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultConfigFile+" when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format text|json (overrides config)")

	rootCmd.AddCommand(
		newRunCmd(),
		newGenerateCmd(),
		newHistogramsCmd(),
		newReportCmd(),
		newServeCmd(),
		newMigrateCmd(),
		newRunsCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// loadConfig reads .env and the config file, applies the global log flags and
// initialises logging.
func loadConfig() (*config.Config, error) {
	config.LoadEnvFile()
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	logging.Init(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}
