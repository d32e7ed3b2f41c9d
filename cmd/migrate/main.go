package main

import (
	"context"
	"os"
	"path/filepath"

	"pvsynergy/domain/run"
	"pvsynergy/internal/config"
	"pvsynergy/internal/container"
	"pvsynergy/internal/logging"
)

// migrate brings the configured store's schema up to date, then imports the
// runs of the given output directories. Each run is recomputed from its
// manifest, so its inputs must still be in place and unchanged.
func main() {
	config.LoadEnvFile()
	cfg, err := config.Load(os.Getenv("PVSYNERGY_CONFIG"))
	if err != nil {
		logging.Log.WithError(err).Fatal("failed to load config")
	}
	logging.Init(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logging.Component("migrate")

	if cfg.Store.Driver == config.DriverNone {
		log.Fatal("Usage: PVSYNERGY_STORE_DRIVER=postgres|sqlite PVSYNERGY_STORE_DSN=... migrate [output_dir...]")
	}

	ctx := context.Background()
	c, err := container.New(ctx, cfg, nil)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer c.Shutdown(ctx)
	log.WithField("driver", cfg.Store.Driver).Info("schema is up to date")

	imported, skipped := 0, 0
	for _, dir := range os.Args[1:] {
		entry := log.WithField("dir", dir)

		m, err := run.LoadManifest(filepath.Join(dir, run.ManifestFile))
		if err != nil {
			entry.WithError(err).Warn("skipping directory without a readable manifest")
			skipped++
			continue
		}
		if _, err := c.Pipeline.Rerun(ctx, m, dir); err != nil {
			entry.WithError(err).Warn("failed to import run")
			skipped++
			continue
		}
		imported++
	}

	log.WithFields(map[string]interface{}{
		"imported": imported,
		"skipped":  skipped,
	}).Info("migration complete")
}
