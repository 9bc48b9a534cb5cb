package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/assetshield/adminauth/internal/auth/store"
	"github.com/assetshield/adminauth/pkg/totp"
)

// HousekeepingService periodically deletes expired login challenges so the
// table does not grow without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Clock    totp.Clock
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. If interval is 0 or
// negative it defaults to 10 minutes.
func NewHousekeepingService(st store.Store, logger *slog.Logger, clock totp.Clock, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if clock == nil {
		clock = totp.SystemClock{}
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Clock:    clock,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the cleanup loop in the background. Call Stop to end it.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop ends the loop and waits for an in-progress cleanup to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes expired login challenges once and returns how many went.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	n, err := s.Store.LoginChallenges().DeleteExpiredLoginChallenges(ctx, s.Clock.Now())
	if err != nil {
		s.Logger.Error("failed to delete expired login challenges", "error", err)
		return 0
	}
	s.Logger.Debug("housekeeping cleanup completed", "expired_challenges", n)
	return n
}
