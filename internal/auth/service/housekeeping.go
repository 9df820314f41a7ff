package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/snazzyfellas/auth/internal/auth/metrics"
	"github.com/snazzyfellas/auth/internal/auth/store"
)

// HousekeepingService periodically deletes expired grants and sessions so
// neither table grows without bound.
type HousekeepingService struct {
	Store        store.Store
	Logger       *slog.Logger
	Interval     time.Duration
	StoreTimeout time.Duration
	Metrics      *metrics.Metrics
	Now          func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker and waits for an in-progress sweep to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep once on startup
	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// SweepResult counts the rows removed by one sweep.
type SweepResult struct {
	Grants   int64
	Sessions int64
}

// Sweep deletes expired grants and sessions. Each deletion is independent;
// a failure in one is logged and does not stop the other.
func (s *HousekeepingService) Sweep(ctx context.Context) SweepResult {
	var (
		res SweepResult
		now = clock(s.Now)
	)

	gctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	n, err := s.Store.Grants().DeleteExpiredGrants(gctx, now)
	cancel()
	if err != nil {
		s.Logger.Error("failed to delete expired grants", "error", err)
	} else {
		res.Grants = n
		s.Metrics.Swept("grants", n)
	}

	sctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	n, err = s.Store.Sessions().DeleteExpiredSessions(sctx, now)
	cancel()
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
	} else {
		res.Sessions = n
		s.Metrics.Swept("sessions", n)
	}

	s.Logger.Info("housekeeping sweep completed", "grants_deleted", res.Grants, "sessions_deleted", res.Sessions)
	return res
}
