package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ConnectDB opens a database for the given driver. For sqlite3 the source
// is a file path; for postgres it is a connection string.
func ConnectDB(driver, source string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		return connectSQLite(source)
	case DriverPostgres:
		return sql.Open(DriverPostgres, source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func connectSQLite(dbPath string) (*sql.DB, error) {
	// Expand tilde to home directory if present
	if strings.HasPrefix(dbPath, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = homeDir + dbPath[1:]
	}

	// Create the directory structure if it doesn't exist
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
	}

	// SQLite will create the database file if it doesn't exist
	db, err := sql.Open(DriverSQLite, dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	return db, nil
}

// EnsureSchema creates the database schema if it doesn't exist
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS todos (
			id TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			state TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	return err
}
