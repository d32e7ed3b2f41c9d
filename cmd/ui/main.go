package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"pvsynergy/app"
	"pvsynergy/internal/config"
	"pvsynergy/internal/logging"
	"pvsynergy/ui"
)

func main() {
	cfgFile := flag.String("config", "", "config file")
	dir := flag.String("dir", "", "output directory to browse (default: output.dir)")
	flag.Parse()

	config.LoadEnvFile()
	cfg, err := config.Load(*cfgFile)
	if err != nil {
		logging.Log.WithError(err).Fatal("failed to load config")
	}
	logging.Init(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	outputDir := cfg.Output.Dir
	if *dir != "" {
		outputDir = *dir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := ui.NewServer(app.NewResultsReader(outputDir), cfg.Server.GinMode)
	if err := s.Start(ctx, ":"+cfg.Server.Port); err != nil {
		logging.Log.WithError(err).Fatal("results browser stopped")
	}
}
