package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// Slot is a named value held in the database
type Slot struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

// Open creates a database connection at path and initializes the schema
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{db}, nil
}

// DataDir returns the directory holding the application's data
func DataDir() (string, error) {
	// Use XDG data directory or fallback to home directory
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "pm"), nil
}

// DefaultPath returns the path to the database file
func DefaultPath() (string, error) {
	appDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, "pm.db"), nil
}

// GetSlot retrieves a slot value by key. A missing slot yields "".
func (db *DB) GetSlot(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSlot overwrites a slot value
func (db *DB) SetSlot(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	return err
}

// DeleteSlot removes a slot
func (db *DB) DeleteSlot(key string) error {
	_, err := db.Exec("DELETE FROM slots WHERE key = ?", key)
	return err
}

// ListSlots returns all slots ordered by key
func (db *DB) ListSlots() ([]Slot, error) {
	rows, err := db.Query("SELECT key, length(value), updated_at FROM slots ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.Key, &s.Size, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
