// Package ingest turns discovered tools into catalog rows and
// orchestrates runs across source adapters.
package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
	"github.com/MrSnakeDoc/toolscout/internal/identity"
	"github.com/MrSnakeDoc/toolscout/internal/logger"
	"github.com/MrSnakeDoc/toolscout/internal/sources"
	"github.com/MrSnakeDoc/toolscout/internal/store/sqlstore"
)

const (
	// fallbackName stands in for discoveries whose name is blank.
	fallbackName = "Unknown"
	// maxSnippetRunes caps stored snippet length.
	maxSnippetRunes = 1000
)

// UpsertResult reports what one occurrence changed in the catalog.
type UpsertResult struct {
	Slug          string
	ToolCreated   bool
	OriginCreated bool
}

// Engine merges discovered tools into the catalog under one rule set:
// identity by slug, first writer wins on scalar fields, tags union,
// occurrences dedup on (source_kind, raw_ref), mentions accumulate.
type Engine struct {
	log logger.Logger
}

// NewEngine builds an upsert engine.
func NewEngine(log logger.Logger) *Engine {
	return &Engine{log: log}
}

// Upsert merges one discovered occurrence inside the caller's transaction.
func (e *Engine) Upsert(ctx context.Context, tx *sqlstore.Tx, kind domain.SourceKind, d sources.DiscoveredTool) (*UpsertResult, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = fallbackName
	}
	slug := identity.Slugify(name)
	now := time.Now().UTC()

	toolCreated := false
	tool, err := tx.GetToolBySlug(ctx, slug)
	switch {
	case err == nil:
		merge(tool, d)
		tool.UpdatedAt = now
		if err := tx.UpdateTool(ctx, tool); err != nil {
			return nil, err
		}
	case errors.Is(err, sqlstore.ErrNotFound):
		tool = &domain.Tool{
			Slug:        slug,
			Name:        name,
			Description: optional(d.Description),
			Homepage:    optional(d.Homepage),
			RepoURL:     optional(d.RepoURL),
			Language:    optional(d.Language),
			Tags:        domain.NewTags(d.Tags),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.InsertTool(ctx, tool); err != nil {
			return nil, err
		}
		toolCreated = true
	default:
		return nil, err
	}

	result := &UpsertResult{Slug: slug, ToolCreated: toolCreated}

	originCreated, err := tx.InsertOrigin(ctx, &domain.Origin{
		ToolID:       tool.ID,
		SourceKind:   kind,
		RawRef:       identity.RawRef(d.Mention.SourceURL, name),
		SourceURL:    d.Mention.SourceURL,
		DiscoveredAt: now,
	})
	if err != nil {
		return nil, err
	}
	result.OriginCreated = originCreated

	review := &domain.Review{
		ToolID:        tool.ID,
		SourceKind:    kind,
		SourceURL:     d.Mention.SourceURL,
		Snippet:       truncateRunes(d.Mention.Snippet, maxSnippetRunes),
		PublishedAt:   parsePublished(d.Mention.PublishedAt),
		LastCheckedAt: now,
		Status:        domain.StatusActive,
	}
	if err := tx.InsertReview(ctx, review); err != nil {
		return nil, err
	}

	e.log.Debug("upserted occurrence",
		logger.String("slug", slug),
		logger.String("source", string(kind)))
	return result, nil
}

// merge folds one occurrence into an existing tool. Scalar fields keep
// their first non-empty value; tags grow by union. The caller bumps
// updated_at on every re-observation, with or without new data.
func merge(tool *domain.Tool, d sources.DiscoveredTool) {
	fill := func(dst **string, src string) {
		if *dst == nil && strings.TrimSpace(src) != "" {
			v := src
			*dst = &v
		}
	}
	fill(&tool.Description, d.Description)
	fill(&tool.Homepage, d.Homepage)
	fill(&tool.RepoURL, d.RepoURL)
	fill(&tool.Language, d.Language)

	tool.Tags = tool.Tags.Union(d.Tags)
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// parsePublished accepts RFC 3339 timestamps, tolerates a missing zone
// suffix, and maps anything else to nil rather than failing the merge.
func parsePublished(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		t = t.UTC()
		return &t
	}
	return nil
}
