// Package worker holds the asynq task handlers run by cmd/worker.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-pos/internal/catalog"
	"github.com/noah-isme/backend-pos/internal/lock"
)

// TaskRefreshStatus recomputes the coarse promotion status index.
const TaskRefreshStatus = "promotion:refresh_status"

const refreshLockKey = "pos:lock:promotion-status-refresh"

// StatusRefresher handles periodic status index refreshes. When a Locker is
// configured, overlapping refreshes across worker replicas are skipped.
type StatusRefresher struct {
	Catalog *catalog.Service
	Locker  *lock.Locker
	LockTTL time.Duration
	Logger  zerolog.Logger
}

// Handle processes one refresh task.
func (s StatusRefresher) Handle(ctx context.Context, _ *asynq.Task) error {
	if s.Locker != nil {
		err := s.Locker.TryWithLock(ctx, refreshLockKey, s.LockTTL, s.refresh)
		if errors.Is(err, lock.ErrNotAcquired) {
			s.Logger.Debug().Msg("status refresh already running elsewhere")
			return nil
		}
		return err
	}
	return s.refresh(ctx)
}

func (s StatusRefresher) refresh(ctx context.Context) error {
	entries, err := s.Catalog.RefreshStatusIndex(ctx)
	if err != nil {
		s.Logger.Error().Err(err).Msg("status refresh failed")
		return err
	}
	s.Logger.Info().Int("promotions", len(entries)).Msg("status index refreshed")
	return nil
}
