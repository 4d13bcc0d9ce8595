// Package db applies the restore schema with goose.
//
// Migration files live in internal/db/migrations/ and are embedded via
// //go:embed. Both the server and the restore CLI call RunMigrations before
// touching any table.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/maidbook/maidbook/internal/dbpool"
)

// MigrationStatus describes one known migration.
type MigrationStatus struct {
	Version int64  `json:"version"`
	File    string `json:"file"`
	Applied bool   `json:"applied"`
}

func newProvider(pool *dbpool.Pool, fsys fs.FS) (*goose.Provider, *sql.DB, error) {
	// goose requires a *sql.DB; open one over the pool's connection string.
	sqlDB, err := sql.Open("pgx", pool.ConnString())
	if err != nil {
		return nil, nil, fmt.Errorf("opening sql.DB for migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		sqlDB.Close()

		return nil, nil, fmt.Errorf("creating goose provider: %w", err)
	}

	return provider, sqlDB, nil
}

// RunMigrations applies all pending migrations from the provided filesystem.
func RunMigrations(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger, fsys fs.FS) error {
	provider, sqlDB, err := newProvider(pool, fsys)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}

		log.WithFields(logrus.Fields{
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}

	if len(results) == 0 {
		log.Debug("all migrations already applied")
	}

	return nil
}

// Status reports every migration in fsys and whether it has been applied.
func Status(ctx context.Context, pool *dbpool.Pool, fsys fs.FS) ([]MigrationStatus, error) {
	provider, sqlDB, err := newProvider(pool, fsys)
	if err != nil {
		return nil, err
	}
	defer sqlDB.Close()

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading migration status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version: s.Source.Version,
			File:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}

	return out, nil
}
