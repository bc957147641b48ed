// Package sqlstore is the persistent catalog store. It speaks SQLite
// (default, pure-Go driver) or PostgreSQL depending on the connection
// string, through sqlx. The (source_kind, raw_ref) uniqueness that
// deduplicates origins is enforced here, in the schema, never in
// application logic alone.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite" // SQLite driver (pure Go)
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections (postgres).
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections (postgres).
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum connection lifetime.
	DefaultConnMaxLifetime = 5 * time.Minute
	// DefaultPingTimeout is the default timeout for ping operations.
	DefaultPingTimeout = 5 * time.Second
)

// ErrNotFound is returned when a lookup by unique key matches nothing.
var ErrNotFound = errors.New("not found")

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Store wraps the database handle and its dialect.
type Store struct {
	db      *sqlx.DB
	dialect dialect
}

// Open connects to the catalog store. A postgres:// (or postgresql://,
// or key=value DSN) URL selects PostgreSQL; anything else is treated as
// a SQLite path or DSN, ":memory:" included.
func Open(databaseURL string) (*Store, error) {
	driver, d := resolveDriver(databaseURL)

	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if d == dialectPostgres {
		db.SetMaxOpenConns(DefaultMaxOpenConns)
		db.SetMaxIdleConns(DefaultMaxIdleConns)
		db.SetConnMaxLifetime(DefaultConnMaxLifetime)
	} else {
		// A single connection keeps in-memory databases coherent and
		// sidesteps SQLite writer contention.
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultPingTimeout)
	defer cancel()
	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return &Store{db: db, dialect: d}, nil
}

func resolveDriver(databaseURL string) (string, dialect) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"),
		strings.HasPrefix(databaseURL, "postgresql://"),
		strings.Contains(databaseURL, "host="):
		return "postgres", dialectPostgres
	default:
		return "sqlite", dialectSQLite
	}
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying connections.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx is one commit boundary over the catalog. The orchestrator opens one
// per adapter and one for the sweep.
type Tx struct {
	tx      *sqlx.Tx
	dialect dialect
}

// Begin opens a transaction.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, dialect: s.dialect}, nil
}

// Commit makes the transaction's writes durable.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback discards the transaction. Safe to defer after Commit.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
