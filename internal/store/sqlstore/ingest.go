package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
)

// Transaction-scoped write operations used by the upsert engine and the
// sweeper. Reads outside a run live in read.go.

// GetToolBySlug looks a tool up by its unique slug within the transaction.
func (t *Tx) GetToolBySlug(ctx context.Context, slug string) (*domain.Tool, error) {
	var tool domain.Tool
	query := t.tx.Rebind(`SELECT * FROM tools WHERE slug = ?`)
	if err := t.tx.GetContext(ctx, &tool, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tool by slug: %w", err)
	}
	return &tool, nil
}

// InsertTool creates a tool row and fills in its generated ID.
func (t *Tx) InsertTool(ctx context.Context, tool *domain.Tool) error {
	const base = `INSERT INTO tools (slug, name, description, homepage, repo_url, language, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []interface{}{
		tool.Slug, tool.Name, tool.Description, tool.Homepage,
		tool.RepoURL, tool.Language, tool.Tags, tool.CreatedAt, tool.UpdatedAt,
	}

	if t.dialect == dialectPostgres {
		query := t.tx.Rebind(base + ` RETURNING id`)
		if err := t.tx.QueryRowContext(ctx, query, args...).Scan(&tool.ID); err != nil {
			return fmt.Errorf("failed to insert tool: %w", err)
		}
		return nil
	}

	res, err := t.tx.ExecContext(ctx, t.tx.Rebind(base), args...)
	if err != nil {
		return fmt.Errorf("failed to insert tool: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted tool id: %w", err)
	}
	tool.ID = id
	return nil
}

// UpdateTool persists the mutable tool fields. Slug and created_at are
// immutable and deliberately absent from the statement.
func (t *Tx) UpdateTool(ctx context.Context, tool *domain.Tool) error {
	query := t.tx.Rebind(`UPDATE tools
		SET name = ?, description = ?, homepage = ?, repo_url = ?, language = ?, tags = ?, updated_at = ?
		WHERE id = ?`)
	_, err := t.tx.ExecContext(ctx, query,
		tool.Name, tool.Description, tool.Homepage, tool.RepoURL,
		tool.Language, tool.Tags, tool.UpdatedAt, tool.ID)
	if err != nil {
		return fmt.Errorf("failed to update tool: %w", err)
	}
	return nil
}

// InsertOrigin records the first sighting of one discovery occurrence.
// A duplicate (source_kind, raw_ref) is expected on repeated runs and
// resolves to a no-op: the constraint wins, no error surfaces, and the
// return value reports whether a row was actually created.
func (t *Tx) InsertOrigin(ctx context.Context, origin *domain.Origin) (bool, error) {
	query := t.tx.Rebind(`INSERT INTO origins (tool_id, source_kind, raw_ref, source_url, discovered_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (source_kind, raw_ref) DO NOTHING`)
	res, err := t.tx.ExecContext(ctx, query,
		origin.ToolID, origin.SourceKind, origin.RawRef, origin.SourceURL, origin.DiscoveredAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert origin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read origin insert result: %w", err)
	}
	return n > 0, nil
}

// InsertReview appends one mention snapshot. Reviews are never
// deduplicated; history accumulates by design.
func (t *Tx) InsertReview(ctx context.Context, review *domain.Review) error {
	query := t.tx.Rebind(`INSERT INTO reviews (tool_id, source_kind, source_url, snippet, sentiment, published_at, last_checked_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := t.tx.ExecContext(ctx, query,
		review.ToolID, review.SourceKind, review.SourceURL, review.Snippet,
		review.Sentiment, review.PublishedAt, review.LastCheckedAt, review.Status)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

// UpdateReviewStatus is the sweeper's only write: liveness status plus
// the check timestamp.
func (t *Tx) UpdateReviewStatus(ctx context.Context, id int64, status domain.ReviewStatus, checkedAt time.Time) error {
	query := t.tx.Rebind(`UPDATE reviews SET status = ?, last_checked_at = ? WHERE id = ?`)
	_, err := t.tx.ExecContext(ctx, query, status, checkedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}
	return nil
}
