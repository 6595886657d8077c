package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopcore/minishop/internal/shop/store"
)

// DefaultInvitationRetention is how long a pending invitation is kept after
// its expiry before the cleaner removes it. Used and revoked invitations are
// kept indefinitely as history.
const DefaultInvitationRetention = 30 * 24 * time.Hour

// HousekeepingService periodically purges expired invitations to prevent
// unbounded growth of the invitations table.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: DefaultInvitationRetention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

// Done is closed once the background worker has exited.
func (s *HousekeepingService) Done() <-chan struct{} {
	return s.doneCh
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup deletes pending invitations that expired before the retention
// cutoff.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-s.Retention)

	if err := s.Store.Invitations().DeleteInvitationsExpiredBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to delete expired invitations", "error", err)
		return
	}

	s.Logger.Debug("housekeeping cleanup completed", "cutoff", cutoff)
}
