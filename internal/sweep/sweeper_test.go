package sweep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
	"github.com/MrSnakeDoc/toolscout/internal/logger"
	"github.com/MrSnakeDoc/toolscout/internal/store/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func seedReview(t *testing.T, s *sqlstore.Store, url string, status domain.ReviewStatus, checkedAt time.Time) {
	t.Helper()
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	tool := &domain.Tool{Slug: "t-" + url[len(url)-1:], Name: "T", CreatedAt: checkedAt, UpdatedAt: checkedAt}
	require.NoError(t, tx.InsertTool(ctx, tool))
	require.NoError(t, tx.InsertReview(ctx, &domain.Review{
		ToolID: tool.ID, SourceKind: domain.SourceHackerNews, SourceURL: url,
		Snippet: "s", LastCheckedAt: checkedAt, Status: status,
	}))
	require.NoError(t, tx.Commit())
}

func TestSweepRefreshesStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/alive":
			w.WriteHeader(http.StatusOK)
		case "/moved":
			w.Header().Set("Location", "/alive")
			w.WriteHeader(http.StatusMovedPermanently)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := newTestStore(t)
	then := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	// An archived mention whose URL answers again must come back.
	seedReview(t, s, srv.URL+"/alive", domain.StatusArchived, then)
	seedReview(t, s, srv.URL+"/moved", domain.StatusActive, then)
	seedReview(t, s, srv.URL+"/gone4", domain.StatusActive, then)

	sweeper := New(s, time.Second, logger.NewNop())
	require.NoError(t, sweeper.Sweep(context.Background()))

	reviews, err := s.ListReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 3)

	byURL := map[string]domain.Review{}
	for _, r := range reviews {
		byURL[r.SourceURL] = r
	}

	assert.Equal(t, domain.StatusActive, byURL[srv.URL+"/alive"].Status)
	assert.Equal(t, domain.StatusActive, byURL[srv.URL+"/moved"].Status, "a redirect is proof of life")
	assert.Equal(t, domain.StatusArchived, byURL[srv.URL+"/gone4"].Status)

	for _, r := range reviews {
		assert.True(t, r.LastCheckedAt.After(then), "every probed mention gets a fresh check timestamp")
	}
}

func TestSweepArchivesUnreachableHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	s := newTestStore(t)
	seedReview(t, s, url+"/x", domain.StatusActive, time.Now().UTC().Add(-time.Hour))

	sweeper := New(s, time.Second, logger.NewNop())
	require.NoError(t, sweeper.Sweep(context.Background()), "probe failures never fail the sweep")

	reviews, err := s.ListReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, domain.StatusArchived, reviews[0].Status)
}

func TestSweepArchivesSlowHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	s := newTestStore(t)
	seedReview(t, s, srv.URL+"/slow1", domain.StatusActive, time.Now().UTC().Add(-time.Hour))

	sweeper := New(s, 50*time.Millisecond, logger.NewNop())
	require.NoError(t, sweeper.Sweep(context.Background()), "probe timeouts never fail the sweep")

	reviews, err := s.ListReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, domain.StatusArchived, reviews[0].Status, "a probe slower than its deadline counts as dead")
}

func TestSweepWithNoReviewsIsNoop(t *testing.T) {
	s := newTestStore(t)
	sweeper := New(s, time.Second, logger.NewNop())
	require.NoError(t, sweeper.Sweep(context.Background()))
}
