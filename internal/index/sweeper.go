package index

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper periodically runs CleanOrphans in the background. Grounded on
// aicenter/internal/task/scheduler.go's ticker + cancel + WaitGroup
// shape; implements spec.md §4.6's schedule_cleanup.
type Sweeper struct {
	mgr      *Manager
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewSweeper builds a Sweeper that calls mgr.CleanOrphans every
// interval (defaulting to 24h when interval <= 0).
func NewSweeper(mgr *Manager, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Sweeper{
		mgr:      mgr,
		interval: interval,
		logger:   slog.Default().With("component", "index_sweeper"),
	}
}

// Start begins periodic sweeping. Idempotent: a second call while
// already running is a no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	sweepCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				s.sweepOnce(sweepCtx)
			}
		}
	}()

	s.logger.Info("sweeper started", "interval", s.interval)
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	start := time.Now()
	report, err := s.mgr.CleanOrphans(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "error", err, "duration", time.Since(start))
		return
	}
	if report.Status == "partial_success" {
		s.logger.Warn("sweep completed with errors",
			"deleted", report.DeletedCount,
			"errors", report.Errors,
			"duration", time.Since(start))
		return
	}
	s.logger.Info("sweep completed",
		"deleted", report.DeletedCount,
		"duration", time.Since(start))
}

// Stop cancels the background sweep and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("sweeper stopped")
}
