package main

import (
	"pvsynergy/app"
	"pvsynergy/ui"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve [output-dir]",
		Short: "Browse a finished run over HTTP",
		Long: `Serve the manifest, stage records and report of the run in output-dir
(default: output.dir) read-only.

Example: pvsynergy serve data --port 8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.Output.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			s := ui.NewServer(app.NewResultsReader(dir), cfg.Server.GinMode)
			return s.Start(cmd.Context(), ":"+cfg.Server.Port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8080", "listen port")

	return cmd
}
