// Package scheduler drives periodic ingestion runs and liveness sweeps
// while the server is up.
package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/logger"
)

// RunFunc is the unit of work a scheduler repeats.
type RunFunc func(ctx context.Context) error

// IngestScheduler triggers ingestion runs on an interval and whenever
// the manual trigger channel fires (the POST /ingest endpoint).
type IngestScheduler struct {
	run           RunFunc
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewIngestScheduler creates an ingestion scheduler.
func NewIngestScheduler(run RunFunc, log logger.Logger, interval time.Duration, manualTrigger chan struct{}) *IngestScheduler {
	return &IngestScheduler{
		run:           run,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic ingestion process. The first run happens
// immediately; its failure is logged but never blocks the server from
// coming up, since the sources may simply be down.
func (is *IngestScheduler) Start(ctx context.Context) {
	go func() {
		if err := is.run(ctx); err != nil {
			is.logger.Error("initial ingestion run failed", logger.Error(err))
		}

		ticker := time.NewTicker(is.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := is.run(ctx); err != nil {
					is.logger.Error("scheduled ingestion run failed", logger.Error(err))
				}
			case <-is.manualTrigger:
				is.logger.Info("manual ingestion run triggered")
				if err := is.run(ctx); err != nil {
					is.logger.Error("manual ingestion run failed", logger.Error(err))
				}
			case <-is.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the scheduler.
func (is *IngestScheduler) Stop() {
	close(is.stopCh)
}
