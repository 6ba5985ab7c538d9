// internal/db/db.go
//
// SQLite access for the comic guessing server.
// Responsibilities:
//   - Opening the database file with WAL, busy timeout and foreign keys.
//   - Applying the embedded golang-migrate schema (assets/migrations).
//
// Note: The schema is SQLite-specific (strftime defaults, COLLATE NOCASE).

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/comicguess/assets"
)

// Open opens (and creates if missing) the SQLite database at path.
// The parent directory is created for relative paths like ./data/app.db.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// Migrate applies every pending up migration. A database that is already
// current is not an error.
func Migrate(db *sql.DB) error {
	fsys, err := assets.Migrations()
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("migrations driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migrations init: %w", err)
	}
	// m.Close would also close db; only release the source.
	defer func() { _ = src.Close() }()

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migrations version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is dirty at version %d", from)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Uint("version", from).Msg("schema up to date")
			return nil
		}
		return fmt.Errorf("migrations up: %w", err)
	}
	to, _, _ := m.Version()
	log.Info().Uint("from", from).Uint("to", to).Msg("schema migrated")
	return nil
}

// OpenAndMigrate is Open followed by Migrate.
func OpenAndMigrate(path string) (*sql.DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
