// Package migrator applies the catalog schema with goose.
package migrator

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/ghuser/nftcatalog/pkg/database"
	"github.com/ghuser/nftcatalog/pkg/logger"
)

// Report describes one migration run.
type Report struct {
	From    int64
	To      int64
	Applied []string
}

// Up applies every pending migration in files to db and logs each one.
// A run with nothing pending returns a Report whose From equals To.
func Up(ctx context.Context, db *database.Database, files fs.FS, log logger.Logger) (Report, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db.DB(), files)
	if err != nil {
		return Report{}, fmt.Errorf("load migrations: %w", err)
	}

	from, err := provider.GetDBVersion(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("read schema version: %w", err)
	}
	report := Report{From: from, To: from}

	results, err := provider.Up(ctx)
	for _, res := range results {
		if res.Error != nil {
			continue
		}
		report.To = res.Source.Version
		report.Applied = append(report.Applied, res.Source.Path)
		log.InfoContext(ctx, "migration applied",
			"version", res.Source.Version,
			"file", res.Source.Path,
			"duration_ms", res.Duration.Milliseconds(),
		)
	}
	if err != nil {
		return report, fmt.Errorf("apply migrations: %w", err)
	}

	log.InfoContext(ctx, "schema up to date", "from", report.From, "to", report.To)
	return report, nil
}

// RunMigrations connects to url and applies pending migrations from files.
func RunMigrations(ctx context.Context, url string, files fs.FS, log logger.Logger) (Report, error) {
	db, err := database.NewPool(ctx, url, log)
	if err != nil {
		return Report{}, err
	}
	defer db.Close()
	return Up(ctx, db, files, log)
}
