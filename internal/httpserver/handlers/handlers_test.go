package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
	"github.com/MrSnakeDoc/toolscout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolscout/internal/logger"
	"github.com/MrSnakeDoc/toolscout/internal/store/sqlstore"
)

func newDeps(t *testing.T) deps.Deps {
	t.Helper()
	s, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureSchema(context.Background()))

	return deps.Deps{
		Logger:    logger.NewNop(),
		StartTime: time.Now(),
		Store:     s,
	}
}

func seedTool(t *testing.T, s *sqlstore.Store, slug, name string, tags domain.Tags) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	tool := &domain.Tool{Slug: slug, Name: name, Tags: tags, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, tx.InsertTool(ctx, tool))
	require.NoError(t, tx.InsertReview(ctx, &domain.Review{
		ToolID: tool.ID, SourceKind: domain.SourceHackerNews,
		SourceURL: "https://news.example/" + slug, Snippet: "about " + name,
		LastCheckedAt: now, Status: domain.StatusActive,
	}))
	require.NoError(t, tx.Commit())
}

func router(d deps.Deps) http.Handler {
	r := chi.NewRouter()
	r.Get("/tools", ListTools(d))
	r.Get("/tools/{slug}", GetTool(d))
	r.Get("/reviews", ListReviews(d))
	r.Get("/healthz", Healthz(d))
	r.Get("/readyz", Readyz(d))
	r.Post("/ingest", Ingest(d))
	return r
}

func TestListToolsEndpoint(t *testing.T) {
	d := newDeps(t)
	seedTool(t, d.Store, "cooltool", "CoolTool", domain.Tags{"cli"})
	seedTool(t, d.Store, "widget", "Widget", nil)
	srv := router(d)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tools []domain.ToolWithMentions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tools))
	assert.Len(t, tools, 2)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools?q=cool", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tools))
	require.Len(t, tools, 1)
	assert.Equal(t, "cooltool", tools[0].Slug)
	assert.Len(t, tools[0].Reviews, 1, "mention history rides along")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools?tag=cli", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tools))
	require.Len(t, tools, 1)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools?q=nothing", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String(), "no match is an empty list, never an error")
}

func TestGetToolEndpoint(t *testing.T) {
	d := newDeps(t)
	seedTool(t, d.Store, "cooltool", "CoolTool", nil)
	srv := router(d)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools/cooltool", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tool domain.ToolWithMentions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tool))
	assert.Equal(t, "CoolTool", tool.Name)
	assert.Len(t, tool.Reviews, 1)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReviewsEndpoint(t *testing.T) {
	d := newDeps(t)
	seedTool(t, d.Store, "cooltool", "CoolTool", nil)
	srv := router(d)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reviews", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var reviews []domain.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, domain.StatusActive, reviews[0].Status)
}

func TestHealthzEndpoint(t *testing.T) {
	d := newDeps(t)
	d.Version = "test"
	srv := router(d)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestReadyzEndpoint(t *testing.T) {
	d := newDeps(t)
	srv := router(d)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// A dead store flips readiness.
	require.NoError(t, d.Store.Close())
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestIngestEndpoint(t *testing.T) {
	d := newDeps(t)
	d.IngestTrigger = make(chan struct{}, 1)
	srv := router(d)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	// Nothing drained the trigger, so the next request collides.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
