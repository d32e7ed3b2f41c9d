package main

import (
	"fmt"
	"path/filepath"

	"pvsynergy/domain/run"
	"pvsynergy/internal/container"
	"pvsynergy/internal/report"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "report [output-dir]",
		Short: "Write the Markdown and HTML report of a finished run",
		Long: `Recompute the final records of the run recorded in output-dir from its
manifest and write report.md and report.html next to it. The inputs must be
unchanged since the run.

Example: pvsynergy report data --top 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir := args[0]
			m, err := run.LoadManifest(filepath.Join(dir, run.ManifestFile))
			if err != nil {
				return err
			}

			// reports never touch the store
			cfg.Store.Driver = ""
			c, err := container.New(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			paths, err := c.Pipeline.WriteReport(cmd.Context(), m, dir, report.Options{TopN: topN})
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Println(p)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top", report.DefaultTopN, "number of top signals listed")

	return cmd
}
