package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"pvsynergy/app"
	"pvsynergy/internal/config"
	"pvsynergy/internal/container"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		outputDir     string
		xlsx          bool
		withReport    bool
		minCases      int
		alpha         float64
		yates         bool
		benchmarkBase string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the synergy pipeline over the configured inputs",
		Long: `Aggregate single- and multi-drug case counts, compute Bliss and chi-square
signals, write the four stage files and the run manifest.

Flags override the matching config keys.

Example: pvsynergy run --output out --xlsx --report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("output") {
				cfg.Output.Dir = outputDir
			}
			if flags.Changed("xlsx") {
				cfg.Output.XLSX = xlsx
			}
			if flags.Changed("report") {
				cfg.Output.Report = withReport
			}
			if flags.Changed("min-cases") {
				cfg.Analysis.MinCases = minCases
			}
			if flags.Changed("alpha") {
				cfg.Analysis.Alpha = alpha
			}
			if flags.Changed("yates") {
				cfg.Analysis.YatesCorrection = yates
			}
			if flags.Changed("benchmark-base") {
				cfg.Analysis.BenchmarkBase = benchmarkBase
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runPipeline(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	cmd.Flags().BoolVar(&xlsx, "xlsx", false, "also write an xlsx workbook with one sheet per stage")
	cmd.Flags().BoolVar(&withReport, "report", false, "also write report.md and report.html")
	cmd.Flags().IntVar(&minCases, "min-cases", 6, "minimum case count in MD and both SD cells")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "chi-square significance level")
	cmd.Flags().BoolVar(&yates, "yates", false, "apply Yates' continuity correction")
	cmd.Flags().StringVar(&benchmarkBase, "benchmark-base", "min_cases", "records joined against the benchmark: min_cases|all")

	return cmd
}

func runPipeline(ctx context.Context, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	c, err := container.New(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	res, err := c.Pipeline.Run(ctx, app.RunRequest{
		Inputs:    cfg.Input,
		OutputDir: cfg.Output.Dir,
		Params:    cfg.Params(),
		XLSX:      cfg.Output.XLSX,
		Report:    cfg.Output.Report,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nRun %s finished in %s\n", res.Manifest.RunID, res.Duration.Round(time.Millisecond))
	fmt.Printf("Manifest: %s\n", res.ManifestPath)
	return nil
}
