package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"pvsynergy/internal/histogram"

	"github.com/spf13/cobra"
)

func newHistogramsCmd() *cobra.Command {
	var (
		stack bool
		size  int
	)

	cmd := &cobra.Command{
		Use:   "histograms [dir]",
		Short: "Summarise a directory of 2-D histogram CSVs",
		Long: `Load every *.csv in dir as a bin_x/bin_y/freq histogram, pivot it into a
zero-padded matrix and print its shape, total frequency and labels.

Example: pvsynergy histograms data/histograms --stack`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			hs, err := histogram.LoadDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tROWS\tCOLS\tSUM\tLABELS")
			for _, h := range hs {
				r, c := h.Dims()
				fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%d\n", h.Source, r, c, h.Sum(), len(h.Labels))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if stack {
				m, err := histogram.Stack(hs, size)
				if err != nil {
					return err
				}
				r, c := m.Dims()
				fmt.Printf("\nStacked %d histograms into a %dx%d matrix\n", len(hs), r, c)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stack, "stack", false, "stack all matrices row-wise")
	cmd.Flags().IntVar(&size, "size", histogram.Size, "expected padded matrix size")

	return cmd
}
