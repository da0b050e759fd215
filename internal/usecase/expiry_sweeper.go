package usecase

import (
	"context"
	"time"

	"cvtheque-backend/internal/domain"
	"cvtheque-backend/pkg/logger"
)

// ExpirySweeper periodically flips PUBLISHED postings whose expires_at has
// passed to ARCHIVED. The sweep is an operational convenience: readers derive
// effective expiry themselves and stay correct however far the sweep lags.
type ExpirySweeper struct {
	repo     domain.PostingRepository
	interval time.Duration
}

func NewExpirySweeper(repo domain.PostingRepository, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpirySweeper{repo: repo, interval: interval}
}

// Run blocks until ctx is cancelled. Call it from its own goroutine.
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs a single pass.
func (s *ExpirySweeper) Sweep(ctx context.Context) {
	count, err := s.repo.ArchiveExpired(ctx, time.Now())
	if err != nil {
		logger.Log.Error("Expiry sweep failed", "error", err)
		return
	}
	if count > 0 {
		logger.Log.Info("Archived expired postings", "count", count)
	}
}
