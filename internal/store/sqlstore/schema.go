package sqlstore

import (
	"context"
	"fmt"
)

// The two DDL variants describe the same catalog. uq_origin_kind_ref is
// the dedup constraint the whole ingestion pipeline leans on: at most
// one origin per distinct discovery occurrence, enforced by the engine
// under concurrent and repeated runs alike.

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS tools (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		homepage TEXT,
		repo_url TEXT,
		language TEXT,
		tags TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS origins (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tool_id INTEGER NOT NULL REFERENCES tools(id) ON DELETE CASCADE,
		source_kind TEXT NOT NULL,
		raw_ref TEXT NOT NULL,
		source_url TEXT NOT NULL,
		discovered_at TIMESTAMP NOT NULL,
		CONSTRAINT uq_origin_kind_ref UNIQUE (source_kind, raw_ref)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tool_id INTEGER NOT NULL REFERENCES tools(id) ON DELETE CASCADE,
		source_kind TEXT NOT NULL,
		source_url TEXT NOT NULL,
		snippet TEXT NOT NULL,
		sentiment TEXT,
		published_at TIMESTAMP,
		last_checked_at TIMESTAMP NOT NULL,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_origins_tool ON origins(tool_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_tool ON reviews(tool_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS tools (
		id BIGSERIAL PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		homepage TEXT,
		repo_url TEXT,
		language TEXT,
		tags TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS origins (
		id BIGSERIAL PRIMARY KEY,
		tool_id BIGINT NOT NULL REFERENCES tools(id) ON DELETE CASCADE,
		source_kind TEXT NOT NULL,
		raw_ref TEXT NOT NULL,
		source_url TEXT NOT NULL,
		discovered_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT uq_origin_kind_ref UNIQUE (source_kind, raw_ref)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id BIGSERIAL PRIMARY KEY,
		tool_id BIGINT NOT NULL REFERENCES tools(id) ON DELETE CASCADE,
		source_kind TEXT NOT NULL,
		source_url TEXT NOT NULL,
		snippet TEXT NOT NULL,
		sentiment TEXT,
		published_at TIMESTAMPTZ,
		last_checked_at TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_origins_tool ON origins(tool_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_tool ON reviews(tool_id)`,
}

// EnsureSchema creates the catalog tables when missing. Idempotent,
// called at the start of every run and on server boot.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := sqliteSchema
	if s.dialect == dialectPostgres {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
