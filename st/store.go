package st

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
)

var ErrNotInitialized = errors.New("store not initialized")

// catalogDDL creates the structure catalog: one row per registered
// structure, mapping its name to the provisioned table and holding the
// schema document.
const catalogDDL = `
CREATE TABLE IF NOT EXISTS edix_structures (
	name VARCHAR PRIMARY KEY,
	table_name VARCHAR NOT NULL,
	definition VARCHAR NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// Store wraps a single DuckDB connection. All DDL and DML issued by the
// provisioner and the record accessors goes through one Store; writes
// serialize through the connection's native transaction semantics, each
// statement committing immediately.
type Store struct {
	db *sql.DB
}

// NewMemoryStore opens an in-memory store.
func NewMemoryStore() (*Store, error) {
	return open("")
}

// NewFileStore opens (or creates) a store backed by a database file,
// creating parent directories as needed.
func NewFileStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return open(path)
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// Single shared connection: the engine offers no ordering guarantee
	// beyond what one connection's isolation provides.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if _, err := db.Exec(catalogDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create structure catalog: %w", err)
	}

	return store, nil
}

// IsInitialized returns true if the store has a valid connection.
func (s *Store) IsInitialized() bool {
	return s != nil && s.db != nil
}

func (s *Store) ensureInitialized() error {
	if !s.IsInitialized() {
		return ErrNotInitialized
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if err := s.ensureInitialized(); err != nil {
		return err
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Exec runs a statement against the store.
func (s *Store) Exec(query string, args ...any) (sql.Result, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	return s.db.Exec(query, args...)
}

// Query runs a row-returning statement against the store.
func (s *Store) Query(query string, args ...any) (*sql.Rows, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	return s.db.Query(query, args...)
}

// QueryRow runs a statement expected to return at most one row.
func (s *Store) QueryRow(query string, args ...any) (*sql.Row, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	return s.db.QueryRow(query, args...), nil
}

// ProvisionError reports that the storage engine rejected generated DDL.
type ProvisionError struct {
	Table string
	Err   error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("failed to provision table %s: %v", e.Table, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}
