package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"embed"
)

// migrations bundles the *.up.sql files into the binary; no runtime file
// dependencies.
//
//go:embed migrations/*.up.sql
var migrations embed.FS

// MigrateUp applies pending migrations in filename order. Applied versions
// are tracked in schema_migrations, so reruns are no-ops. Each migration
// runs in its own transaction.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("migrate: ensure migrations table: %w", err)
	}

	names, err := migrationNames()
	if err != nil {
		return fmt.Errorf("migrate: list files: %w", err)
	}

	for _, name := range names {
		version := versionOf(name)

		var applied int
		row := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version)
		if err := row.Scan(&applied); err != nil {
			return fmt.Errorf("migrate: check %s: %w", name, err)
		}
		if applied > 0 {
			continue
		}

		if err := apply(db, version, name); err != nil {
			return fmt.Errorf("migrate: apply %s: %w", name, err)
		}
	}
	return nil
}

func migrationNames() ([]string, error) {
	entries, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	return entries, nil
}

// versionOf extracts the numeric prefix of "migrations/001_name.up.sql".
func versionOf(name string) int {
	base := strings.TrimPrefix(name, "migrations/")
	prefix, _, _ := strings.Cut(base, "_")
	v, _ := strconv.Atoi(prefix)
	return v
}

func apply(db *sql.DB, version int, name string) error {
	raw, err := migrations.ReadFile(name)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(string(raw)); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", version, name); err != nil {
		return err
	}
	return tx.Commit()
}
