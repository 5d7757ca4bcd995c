// Package storage persists bookings and orders in SQLite. The default
// DSN is an in-memory database; the store is a system of record for the
// lifetime of the process only.
package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps sql.DB for the marketplace stores.
type DB struct {
	*sql.DB
}

// NewDB opens the database at path and runs migrations. An empty path
// opens a private in-memory database.
func NewDB(path string) (*DB, error) {
	if path == "" {
		path = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps :memory: databases alive and serializes
	// access the way SQLite expects.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			vendor_id TEXT NOT NULL,
			vendor_name TEXT NOT NULL,
			service_id TEXT NOT NULL,
			service_name TEXT NOT NULL,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			visit_type TEXT NOT NULL,
			address TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			booking_code TEXT UNIQUE NOT NULL,
			price REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			order_code TEXT UNIQUE NOT NULL,
			user_id INTEGER NOT NULL,
			items TEXT NOT NULL,
			subtotal REAL NOT NULL,
			delivery REAL NOT NULL,
			total REAL NOT NULL,
			shipping TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_vendor ON bookings(vendor_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
