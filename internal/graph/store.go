// Package graph persists the property graph in an embedded SQLite database:
// schema definition at startup, batched append-only writes during the run,
// and read helpers for downstream consumers.
package graph

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Querier abstracts *sql.DB and *sql.Tx so read helpers work in both contexts.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store wraps a SQLite connection holding the graph.
type Store struct {
	db     *sql.DB
	q      Querier
	dbPath string
}

// Open opens or creates the graph database at the given path and defines the
// schema. A schema-definition failure is fatal: the store is closed and an
// error returned.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath}
	s.q = s.db
	if err := s.DefineSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("define schema: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory graph database (for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	// Each pooled connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	s := &Store{db: db, dbPath: ":memory:"}
	s.q = s.db
	if err := s.DefineSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("define schema: %w", err)
	}
	return s, nil
}

// Begin starts a write transaction.
func (s *Store) Begin() (*sql.Tx, error) {
	return s.db.Begin()
}

// Exec runs a statement against the store outside any batch transaction.
func (s *Store) Exec(query string, args ...any) (sql.Result, error) {
	return s.q.Exec(query, args...)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying sql.DB (for advanced queries).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.dbPath
}
