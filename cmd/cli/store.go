package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"pvsynergy/internal/config"
	"pvsynergy/internal/container"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the schema of the configured result store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Driver == config.DriverNone {
				return fmt.Errorf("store.driver is not set")
			}

			// opening a store applies pending migrations
			store, err := container.OpenStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			fmt.Printf("%s store is up to date\n", cfg.Store.Driver)
			return store.Close()
		},
	}
}

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List runs saved in the configured result store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Driver == config.DriverNone {
				return fmt.Errorf("store.driver is not set")
			}

			store, err := container.OpenStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tCREATED\tFINGERPRINT\tRECORDS\tMIN CASES\tOUTPUT")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%.12s\t%d\t%d\t%s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Fingerprint,
					r.JoinedRecords, r.MinCases, r.OutputDir)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs listed, newest first")

	return cmd
}
