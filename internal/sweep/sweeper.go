// Package sweep refreshes mention liveness. Each review's source URL
// gets a cheap HEAD probe; reachable mentions stay active, the rest are
// archived. Archived is reversible: a later sweep that finds the URL
// alive flips it back.
package sweep

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
	"github.com/MrSnakeDoc/toolscout/internal/logger"
	"github.com/MrSnakeDoc/toolscout/internal/sources"
	"github.com/MrSnakeDoc/toolscout/internal/store/sqlstore"
	"github.com/MrSnakeDoc/toolscout/internal/utils"
)

// DefaultProbeTimeout bounds one HEAD probe.
const DefaultProbeTimeout = 5 * time.Second

// Sweeper walks every review and records whether its source URL still
// answers.
type Sweeper struct {
	store  *sqlstore.Store
	client *http.Client
	log    logger.Logger
}

// New builds a sweeper. The probe client keeps no connections alive and
// never follows redirects; a redirect answer is already proof of life.
func New(store *sqlstore.Store, probeTimeout time.Duration, log logger.Logger) *Sweeper {
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	return &Sweeper{
		store: store,
		client: &http.Client{
			Timeout:   probeTimeout,
			Transport: &http.Transport{DisableKeepAlives: true},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: log,
	}
}

// Sweep probes every review URL and commits the refreshed statuses in
// one transaction. Probe failures only affect the probed mention; a
// storage fault aborts the whole sweep.
func (s *Sweeper) Sweep(ctx context.Context) error {
	refs, err := s.store.ListReviewRefs(ctx)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}

	started := time.Now()
	statuses := make([]domain.ReviewStatus, len(refs))
	archived := 0
	for i, ref := range refs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.probe(ctx, ref.SourceURL) {
			statuses[i] = domain.StatusActive
		} else {
			statuses[i] = domain.StatusArchived
			archived++
		}
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin sweep transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	checkedAt := time.Now().UTC()
	for i, ref := range refs {
		if err := tx.UpdateReviewStatus(ctx, ref.ID, statuses[i], checkedAt); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sweep: %w", err)
	}

	s.log.Info("liveness sweep finished",
		logger.Int("checked", len(refs)),
		logger.Int("archived", archived),
		logger.Duration("elapsed", time.Since(started)))
	return nil
}

// probe reports whether the URL still answers with a non-error status.
func (s *Sweeper) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", sources.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer utils.Close(resp.Body)

	return resp.StatusCode < http.StatusBadRequest
}
