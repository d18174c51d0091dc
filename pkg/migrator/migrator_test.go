package migrator

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/ghuser/nftcatalog/pkg/config"
	"github.com/ghuser/nftcatalog/pkg/database"
	"github.com/ghuser/nftcatalog/pkg/logger"
)

func newTestLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func TestUp_NoMigrations(t *testing.T) {
	// sql.Open is lazy, so no server is contacted before goose scans files.
	raw, err := sql.Open("pgx", "postgres://catalog@127.0.0.1:1/nftcatalog")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db := database.New(raw, newTestLogger())
	defer db.Close()

	_, err = Up(context.Background(), db, fstest.MapFS{}, newTestLogger())
	if !errors.Is(err, goose.ErrNoMigrations) {
		t.Fatalf("err = %v, want ErrNoMigrations", err)
	}
}

func TestRunMigrations_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	files := fstest.MapFS{
		"00001_init.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
	}
	report, err := RunMigrations(ctx, "postgres://catalog@127.0.0.1:1/nftcatalog?connect_timeout=1", files, newTestLogger())
	if err == nil {
		t.Fatal("expected connection error")
	}
	if len(report.Applied) != 0 {
		t.Errorf("applied = %v, want none", report.Applied)
	}
}
