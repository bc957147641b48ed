package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/logger"
)

// SweepScheduler re-checks mention liveness on an interval. Every
// ingestion run already ends with a sweep, so there is no immediate
// sweep on start; the ticker covers the quiet stretches in between.
type SweepScheduler struct {
	run      RunFunc
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSweepScheduler creates a sweep scheduler.
func NewSweepScheduler(run RunFunc, log logger.Logger, interval time.Duration) *SweepScheduler {
	return &SweepScheduler{
		run:      run,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep process.
func (ss *SweepScheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(ss.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ss.run(ctx); err != nil {
					ss.logger.Error("scheduled sweep failed", logger.Error(err))
				}
			case <-ss.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the scheduler.
func (ss *SweepScheduler) Stop() {
	close(ss.stopCh)
}
