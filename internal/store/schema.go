package store

import (
	"database/sql"
	"fmt"
)

// createDocumentsTable holds the canonical record for every Document:
// content, its metadata envelope (serialized JSON), and the vector bytes
// needed to rehydrate the in-memory chromem-go collection on load.
const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	content     TEXT NOT NULL,
	metadata    TEXT NOT NULL,
	vector      BLOB NOT NULL,
	file_hash   TEXT NOT NULL,
	file_type   TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
)`

const createFileHashIndex = `
CREATE INDEX IF NOT EXISTS idx_documents_file_hash ON documents(file_hash)`

const createMetadataTable = `
CREATE TABLE IF NOT EXISTS store_metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// CreateSchema creates the documents table, its indexes, and the
// store_metadata table (which enforces the fixed-dimension invariant via a
// single "dimension" row), all in one transaction (spec §4.3's Store is
// otherwise all-or-nothing per batch; schema creation itself should be no
// different).
func CreateSchema(db *sql.DB, dimension int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, ddl := range []string{createDocumentsTable, createFileHashIndex, createMetadataTable} {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("store: create schema: %w", err)
		}
	}

	// "INSERT OR IGNORE" keeps CreateSchema idempotent: a second
	// Initialize() of an existing store must not overwrite the dimension
	// it was created with.
	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO store_metadata (key, value) VALUES ('dimension', ?)`,
		fmt.Sprintf("%d", dimension),
	); err != nil {
		return fmt.Errorf("store: bootstrap metadata: %w", err)
	}

	return tx.Commit()
}

// StoredDimension reads the dimension a store was initialized with.
func StoredDimension(db *sql.DB) (int, error) {
	var raw string
	err := db.QueryRow(`SELECT value FROM store_metadata WHERE key = 'dimension'`).Scan(&raw)
	if err != nil {
		return 0, fmt.Errorf("store: read dimension: %w", err)
	}
	var dim int
	if _, err := fmt.Sscanf(raw, "%d", &dim); err != nil {
		return 0, fmt.Errorf("store: parse dimension: %w", err)
	}
	return dim, nil
}
