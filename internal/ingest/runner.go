package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/logger"
	"github.com/MrSnakeDoc/toolscout/internal/sources"
	"github.com/MrSnakeDoc/toolscout/internal/store/sqlstore"
	"github.com/google/uuid"
)

// Sweeper refreshes mention liveness after discovery.
type Sweeper interface {
	Sweep(ctx context.Context) error
}

// Flusher invalidates cached reads once a run has committed.
type Flusher interface {
	Flush(ctx context.Context) error
}

// adapterStats counts what one adapter contributed to a run.
type adapterStats struct {
	occurrences int
	tools       int
	origins     int
}

// Runner executes one full ingestion run: every adapter in sequence,
// one transaction per adapter, then the liveness sweep.
//
// A source that fails mid-fetch keeps its progress so far and never
// blocks the remaining sources. A storage fault is different: it aborts
// the run immediately with that adapter's transaction rolled back.
type Runner struct {
	store    *sqlstore.Store
	engine   *Engine
	adapters []sources.Adapter
	sweeper  Sweeper
	cache    Flusher
	log      logger.Logger
}

// NewRunner wires a run orchestrator. sweeper and cache may be nil.
func NewRunner(store *sqlstore.Store, engine *Engine, adapters []sources.Adapter, sweeper Sweeper, cache Flusher, log logger.Logger) *Runner {
	return &Runner{
		store:    store,
		engine:   engine,
		adapters: adapters,
		sweeper:  sweeper,
		cache:    cache,
		log:      log,
	}
}

// Run performs one ingestion run. Source fetch failures are reported
// and tolerated; only storage faults make the run itself fail.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := r.log.With(logger.String("run_id", runID))
	started := time.Now()

	log.Info("ingestion run starting", logger.Int("adapters", len(r.adapters)))

	if err := r.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	for _, adapter := range r.adapters {
		if err := r.runAdapter(ctx, log, adapter); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if r.sweeper != nil {
		if err := r.sweeper.Sweep(ctx); err != nil {
			return fmt.Errorf("liveness sweep: %w", err)
		}
	}

	if r.cache != nil {
		if err := r.cache.Flush(ctx); err != nil {
			log.Warn("cache flush failed", logger.Error(err))
		}
	}

	log.Info("ingestion run finished", logger.Duration("elapsed", time.Since(started)))
	return nil
}

// runAdapter drains one adapter inside its own transaction. The emit
// callback records any storage fault so it can be told apart from the
// fetch error Discover wraps it in.
func (r *Runner) runAdapter(ctx context.Context, log logger.Logger, adapter sources.Adapter) error {
	kind := adapter.Kind()
	alog := log.With(logger.String("source", string(kind)))

	tx, err := r.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for %s: %w", kind, err)
	}
	defer func() { _ = tx.Rollback() }()

	var stats adapterStats
	var storeErr error

	emit := func(d sources.DiscoveredTool) error {
		result, upsertErr := r.engine.Upsert(ctx, tx, kind, d)
		if upsertErr != nil {
			storeErr = upsertErr
			return upsertErr
		}
		stats.occurrences++
		if result.ToolCreated {
			stats.tools++
		}
		if result.OriginCreated {
			stats.origins++
		}
		return nil
	}

	discoverErr := adapter.Discover(ctx, emit)

	if storeErr != nil {
		return fmt.Errorf("storage fault during %s ingestion: %w", kind, storeErr)
	}

	if discoverErr != nil {
		// The source failed, not us. Keep what it produced so far.
		alog.Warn("source fetch failed, keeping partial progress",
			logger.Int("occurrences", stats.occurrences),
			logger.Error(discoverErr))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s ingestion: %w", kind, err)
	}

	alog.Info("source ingested",
		logger.Int("occurrences", stats.occurrences),
		logger.Int("new_tools", stats.tools),
		logger.Int("new_origins", stats.origins))
	return nil
}
