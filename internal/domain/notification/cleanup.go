package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper removes expired notifications on a fixed interval
type Sweeper struct {
	repo     Repository
	interval time.Duration
}

// NewSweeper creates a sweeper
func NewSweeper(repo Repository, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{repo: repo, interval: interval}
}

// Start runs the sweeper until the context is cancelled
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Notification sweeper stopped")
			return
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Sweeper) run(ctx context.Context) {
	deleted, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep expired notifications")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("Swept expired notifications")
	}
}

// RunOnce sweeps once (for manual trigger or testing)
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now())
}
