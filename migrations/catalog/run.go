package main

import (
	"context"
	"embed"
	"log/slog"
	"os"

	"github.com/ghuser/nftcatalog/pkg/config"
	"github.com/ghuser/nftcatalog/pkg/logger"
	"github.com/ghuser/nftcatalog/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg).With("component", "migrator")

	report, err := migrator.RunMigrations(context.Background(), cfg.CatalogDatabaseURL, MigrationsFS, log)
	if err != nil {
		log.Error("catalog migrations failed", "error", err, "reached", report.To)
		os.Exit(1)
	}
	log.Info("catalog migrations done", "applied", len(report.Applied), "version", report.To)
}
