package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
	"github.com/jmoiron/sqlx"
)

// ToolFilter narrows a tool listing. Both filters are case-insensitive
// substring matches; empty strings match everything.
type ToolFilter struct {
	Query string // matches the tool name
	Tag   string // matches an entry of the tag set
}

// ReviewRef is the minimal projection the liveness sweeper walks.
type ReviewRef struct {
	ID        int64  `db:"id"`
	SourceURL string `db:"source_url"`
}

// ListTools returns tools matching the filter, newest update first,
// each with its full mention history loaded explicitly.
func (s *Store) ListTools(ctx context.Context, filter ToolFilter) ([]domain.ToolWithMentions, error) {
	where := []string{}
	args := []interface{}{}
	if filter.Query != "" {
		where = append(where, `LOWER(name) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
	}
	if filter.Tag != "" {
		where = append(where, `LOWER(COALESCE(tags, '')) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Tag)+"%")
	}

	query := `SELECT * FROM tools`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY updated_at DESC`

	var tools []domain.Tool
	if err := s.db.SelectContext(ctx, &tools, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	if len(tools) == 0 {
		return []domain.ToolWithMentions{}, nil
	}

	ids := make([]int64, len(tools))
	for i, tool := range tools {
		ids[i] = tool.ID
	}
	byTool, err := s.reviewsForTools(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ToolWithMentions, len(tools))
	for i, tool := range tools {
		out[i] = domain.ToolWithMentions{Tool: tool, Reviews: byTool[tool.ID]}
	}
	return out, nil
}

// GetToolWithMentions retrieves one tool by slug together with all its
// reviews in a single explicit fetch. Returns ErrNotFound for unknown slugs.
func (s *Store) GetToolWithMentions(ctx context.Context, slug string) (*domain.ToolWithMentions, error) {
	var tool domain.Tool
	if err := s.db.GetContext(ctx, &tool, s.db.Rebind(`SELECT * FROM tools WHERE slug = ?`), slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tool: %w", err)
	}

	byTool, err := s.reviewsForTools(ctx, []int64{tool.ID})
	if err != nil {
		return nil, err
	}
	return &domain.ToolWithMentions{Tool: tool, Reviews: byTool[tool.ID]}, nil
}

// ListReviews returns every mention, most recently published first,
// unpublished ones last.
func (s *Store) ListReviews(ctx context.Context) ([]domain.Review, error) {
	var reviews []domain.Review
	query := `SELECT * FROM reviews ORDER BY published_at DESC NULLS LAST, id DESC`
	if err := s.db.SelectContext(ctx, &reviews, query); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// ListReviewRefs returns the id and URL of every review for the sweep.
func (s *Store) ListReviewRefs(ctx context.Context) ([]ReviewRef, error) {
	var refs []ReviewRef
	if err := s.db.SelectContext(ctx, &refs, `SELECT id, source_url FROM reviews ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list review refs: %w", err)
	}
	return refs, nil
}

// DeleteTool removes a tool by slug; origins and reviews go with it via
// the cascade. Ingestion never calls this, it exists for curation.
func (s *Store) DeleteTool(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM tools WHERE slug = ?`), slug)
	if err != nil {
		return fmt.Errorf("failed to delete tool: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) reviewsForTools(ctx context.Context, ids []int64) (map[int64][]domain.Review, error) {
	query, args, err := sqlx.In(`SELECT * FROM reviews WHERE tool_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build reviews query: %w", err)
	}
	var reviews []domain.Review
	if err := s.db.SelectContext(ctx, &reviews, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	byTool := make(map[int64][]domain.Review, len(ids))
	for _, r := range reviews {
		byTool[r.ToolID] = append(byTool[r.ToolID], r)
	}
	return byTool, nil
}
