package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func strPtr(s string) *string { return &s }

func insertTool(t *testing.T, s *Store, tool *domain.Tool) {
	t.Helper()
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertTool(ctx, tool))
	require.NoError(t, tx.Commit())
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.EnsureSchema(context.Background()))
}

func TestInsertAndGetTool(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	tool := &domain.Tool{
		Slug:      "cooltool",
		Name:      "CoolTool",
		Homepage:  strPtr("https://cool.tool"),
		Tags:      domain.Tags{"hn", "show-hn"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	insertTool(t, s, tool)
	require.NotZero(t, tool.ID)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	got, err := tx.GetToolBySlug(ctx, "cooltool")
	require.NoError(t, err)
	assert.Equal(t, "CoolTool", got.Name)
	require.NotNil(t, got.Homepage)
	assert.Equal(t, "https://cool.tool", *got.Homepage)
	assert.Nil(t, got.Description)
	assert.Equal(t, domain.Tags{"hn", "show-hn"}, got.Tags)

	_, err = tx.GetToolBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertOriginDeduplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	tool := &domain.Tool{Slug: "t", Name: "T", CreatedAt: now, UpdatedAt: now}
	insertTool(t, s, tool)

	origin := &domain.Origin{
		ToolID:       tool.ID,
		SourceKind:   domain.SourceHackerNews,
		RawRef:       "abcdef123456",
		SourceURL:    "https://news.example/item?id=1",
		DiscoveredAt: now,
	}

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	created, err := tx.InsertOrigin(ctx, origin)
	require.NoError(t, err)
	assert.True(t, created, "first insert should create the origin")

	created, err = tx.InsertOrigin(ctx, origin)
	require.NoError(t, err, "duplicate occurrence must be a no-op, not an error")
	assert.False(t, created)

	// Same raw_ref under a different source kind is a distinct occurrence.
	other := *origin
	other.SourceKind = domain.SourceGitHub
	created, err = tx.InsertOrigin(ctx, &other)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, tx.Commit())

	var n int
	require.NoError(t, s.db.Get(&n, `SELECT COUNT(*) FROM origins`))
	assert.Equal(t, 2, n)
}

func TestDeleteToolCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	tool := &domain.Tool{Slug: "doomed", Name: "Doomed", CreatedAt: now, UpdatedAt: now}
	insertTool(t, s, tool)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.InsertOrigin(ctx, &domain.Origin{
		ToolID: tool.ID, SourceKind: domain.SourceGitHub, RawRef: "ref000000001",
		SourceURL: "https://github.example/x", DiscoveredAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, tx.InsertReview(ctx, &domain.Review{
		ToolID: tool.ID, SourceKind: domain.SourceGitHub, SourceURL: "https://github.example/x",
		Snippet: "snap", LastCheckedAt: now, Status: domain.StatusActive,
	}))
	require.NoError(t, tx.Commit())

	require.NoError(t, s.DeleteTool(ctx, "doomed"))

	reviews, err := s.ListReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, reviews, "reviews should cascade with the tool")

	var n int
	require.NoError(t, s.db.Get(&n, `SELECT COUNT(*) FROM origins`))
	assert.Zero(t, n, "origins should cascade with the tool")

	assert.ErrorIs(t, s.DeleteTool(ctx, "doomed"), ErrNotFound)
}

func TestListReviewsOrdersNullsLast(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	older := now.Add(-time.Hour)

	tool := &domain.Tool{Slug: "t", Name: "T", CreatedAt: now, UpdatedAt: now}
	insertTool(t, s, tool)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	for _, r := range []*domain.Review{
		{ToolID: tool.ID, SourceKind: domain.SourceGitHub, SourceURL: "u1", Snippet: "no date", LastCheckedAt: now, Status: domain.StatusActive},
		{ToolID: tool.ID, SourceKind: domain.SourceHackerNews, SourceURL: "u2", Snippet: "older", PublishedAt: &older, LastCheckedAt: now, Status: domain.StatusActive},
		{ToolID: tool.ID, SourceKind: domain.SourceHackerNews, SourceURL: "u3", Snippet: "newer", PublishedAt: &now, LastCheckedAt: now, Status: domain.StatusActive},
	} {
		require.NoError(t, tx.InsertReview(ctx, r))
	}
	require.NoError(t, tx.Commit())

	reviews, err := s.ListReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, "newer", reviews[0].Snippet)
	assert.Equal(t, "older", reviews[1].Snippet)
	assert.Equal(t, "no date", reviews[2].Snippet, "unpublished mentions sort last")
}

func TestUpdateReviewStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	then := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	tool := &domain.Tool{Slug: "t", Name: "T", CreatedAt: then, UpdatedAt: then}
	insertTool(t, s, tool)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	review := &domain.Review{
		ToolID: tool.ID, SourceKind: domain.SourceHackerNews, SourceURL: "u",
		Snippet: "s", LastCheckedAt: then, Status: domain.StatusActive,
	}
	require.NoError(t, tx.InsertReview(ctx, review))
	require.NoError(t, tx.Commit())

	refs, err := s.ListReviewRefs(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 1)

	checked := time.Now().UTC().Truncate(time.Second)
	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpdateReviewStatus(ctx, refs[0].ID, domain.StatusArchived, checked))
	require.NoError(t, tx.Commit())

	reviews, err := s.ListReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, domain.StatusArchived, reviews[0].Status)
	assert.True(t, reviews[0].LastCheckedAt.After(then), "last_checked_at should advance")
}

func TestUnknownStatusRejectedWhenScanning(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	tool := &domain.Tool{Slug: "t", Name: "T", CreatedAt: now, UpdatedAt: now}
	insertTool(t, s, tool)

	// Bypass the Valuer to plant a value the enum does not know.
	_, err := s.db.Exec(s.db.Rebind(`INSERT INTO reviews (tool_id, source_kind, source_url, snippet, last_checked_at, status)
		VALUES (?, ?, ?, ?, ?, ?)`), tool.ID, "hacker_news", "u", "s", now, "bogus")
	require.NoError(t, err)

	_, err = s.ListReviews(ctx)
	assert.Error(t, err, "unknown status values must be rejected at the storage boundary")
}

func TestListToolsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	insertTool(t, s, &domain.Tool{Slug: "cooltool", Name: "CoolTool", Tags: domain.Tags{"CLI", "productivity"}, CreatedAt: now, UpdatedAt: now})
	insertTool(t, s, &domain.Tool{Slug: "widget", Name: "Widget", Tags: domain.Tags{"gui"}, CreatedAt: now, UpdatedAt: now.Add(time.Minute)})
	insertTool(t, s, &domain.Tool{Slug: "bare", Name: "Bare", CreatedAt: now, UpdatedAt: now})

	all, err := s.ListTools(ctx, ToolFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "widget", all[0].Slug, "newest update first")

	byName, err := s.ListTools(ctx, ToolFilter{Query: "cool"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "cooltool", byName[0].Slug)

	byTag, err := s.ListTools(ctx, ToolFilter{Tag: "cli"})
	require.NoError(t, err)
	require.Len(t, byTag, 1, "tag filter is case-insensitive")
	assert.Equal(t, "cooltool", byTag[0].Slug)

	none, err := s.ListTools(ctx, ToolFilter{Query: "nope"})
	require.NoError(t, err)
	assert.Empty(t, none, "absent matches degrade to an empty list")
}
