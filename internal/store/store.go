package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ademuri/taste-tools/internal/migration"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	exists, err := dbExists(db)
	if err != nil {
		return err
	}

	if !exists {
		if _, err := db.Exec(migration.Create); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}

func dbExists(db *sql.DB) (bool, error) {
	// 'User' stands in for the whole schema.
	row := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'User'")
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking db existence: %w", err)
	}
	return true, nil
}
