package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"pvsynergy/app"
	"pvsynergy/internal/config"
	"pvsynergy/internal/container"
	apperrors "pvsynergy/internal/errors"
	"pvsynergy/internal/logging"
)

// Runs the pipeline once with the configured inputs and outputs. The cli
// binary offers the same run plus the supporting commands.
func main() {
	cfgFile := flag.String("config", "", "config file")
	flag.Parse()

	config.LoadEnvFile()
	cfg, err := config.Load(*cfgFile)
	if err != nil {
		logging.Log.WithError(err).Fatal("failed to load config")
	}
	logging.Init(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		logging.Log.WithError(err).Fatal("failed to create output dir")
	}

	c, err := container.New(ctx, cfg, os.Stdout)
	if err != nil {
		logging.Log.WithError(err).Fatal("failed to initialize")
	}
	defer c.Shutdown(ctx)

	_, err = c.Pipeline.Run(ctx, app.RunRequest{
		Inputs:    cfg.Input,
		OutputDir: cfg.Output.Dir,
		Params:    cfg.Params(),
		XLSX:      cfg.Output.XLSX,
		Report:    cfg.Output.Report,
	})
	if err != nil {
		logging.Log.WithField("code", apperrors.GetCode(err)).WithError(err).Error("run failed")
		c.Shutdown(ctx)
		os.Exit(1)
	}
}
