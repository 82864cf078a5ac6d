package tokensweeper

import (
	"context"
	"time"

	"github.com/nkiryanov/socialnet/internal/logger"
)

const defaultInterval = time.Hour // Interval between sweeps

type refreshRepo interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Sweeper periodically deletes refresh tokens that expired already.
// Expired tokens are rejected anyway, sweeping only keeps the table small
type Sweeper struct {
	interval time.Duration
	repo     refreshRepo
	logger   logger.Logger
	now      func() time.Time
}

func New(interval time.Duration, repo refreshRepo, logger logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Sweeper{
		interval: interval,
		repo:     repo,
		logger:   logger,
		now:      time.Now,
	}
}

// Run sweeps on every tick until ctx is done. Returned channel closed when sweeper stopped
func (s *Sweeper) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})
	s.logger.Debug("Starting token sweeper", "interval", s.interval)

	go func() {
		defer close(idleStopped)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Debug("Token sweeper stopped by context")
				return

			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()

	return idleStopped
}

// Sweep once
func (s *Sweeper) Sweep(ctx context.Context) {
	deleted, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to delete expired refresh tokens", "error", err)
		return
	}

	if deleted > 0 {
		s.logger.Info("Expired refresh tokens deleted", "count", deleted)
	}
}
