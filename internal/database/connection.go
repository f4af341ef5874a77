// Package database persists progress snapshots, the review journal and chat
// settings in SQLite or PostgreSQL.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Config selects and locates the database
type Config struct {
	Type string // sqlite or postgres
	Path string // SQLite file, ":memory:" for a private in-memory database
	URL  string // PostgreSQL connection string
}

// Connect establishes a connection to the database and makes sure the schema exists
func Connect(cfg Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.Type {
	case TypeSQLite, "sqlite3", "":
		db, err = connectSQLite(cfg.Path)
	case TypePostgres:
		db, err = sqlx.Connect("postgres", cfg.URL)
		if err != nil {
			err = errors.Wrap(err, "failed to connect to database")
		}
	default:
		err = errors.Errorf("unsupported database type %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func connectSQLite(path string) (*sqlx.DB, error) {
	if path == "" {
		path = filepath.Join("data", "mintin.db")
	}
	if path != ":memory:" {
		// Create data directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create data directory")
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to enable foreign keys")
	}

	// SQLite doesn't support multiple writers; an in-memory database lives
	// only as long as its single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"progress_snapshots", `
			CREATE TABLE IF NOT EXISTS progress_snapshots (
				deck TEXT PRIMARY KEY,
				data TEXT NOT NULL,
				age INTEGER NOT NULL DEFAULT 0,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`},
		{"reviews", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS reviews (
				id %s,
				deck TEXT NOT NULL,
				item_index INTEGER NOT NULL,
				prompt TEXT NOT NULL,
				pass BOOLEAN NOT NULL,
				distrust INTEGER NOT NULL,
				age INTEGER NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, serial)},
		{"chats", `
			CREATE TABLE IF NOT EXISTS chats (
				chat_id BIGINT PRIMARY KEY,
				deck TEXT NOT NULL,
				notification_enabled BOOLEAN DEFAULT true,
				notification_hour INTEGER DEFAULT 9,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.ddl); err != nil {
			return errors.Wrapf(err, "failed to create %s table", table.name)
		}
	}

	if _, err := db.Exec("CREATE INDEX IF NOT EXISTS idx_reviews_deck ON reviews (deck)"); err != nil {
		return errors.Wrap(err, "failed to create reviews index")
	}
	return nil
}
