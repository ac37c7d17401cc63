// Package db opens the Postgres connection and applies schema migrations.
package db

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/uptrace/bun/driver/pgdriver"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Connect opens a Postgres connection for the given DSN, verifies it and
// applies pending migrations.
func Connect(dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := runMigrations(sqldb); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return sqldb, nil
}

func runMigrations(sqldb *sql.DB) error {
	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFS,
		Root:       "migrations",
	}

	n, err := migrate.Exec(sqldb, "postgres", migrations, migrate.Up)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("applied migrations", "count", n)
	}

	return nil
}
