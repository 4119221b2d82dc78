package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewTestDB creates an in-memory SQLite-backed Storage for testing
func NewTestDB() (*Storage, func(), error) {
	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open test database: %w", err)
	}
	// Every pooled connection would get its own empty :memory: database
	database.SetMaxOpenConns(1)

	if err := migrate(database, embedMigrations); err != nil {
		database.Close()
		return nil, nil, err
	}

	cleanup := func() {
		database.Close()
	}

	return &Storage{db: database}, cleanup, nil
}
