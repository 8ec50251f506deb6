// AngelaMos | 2026
// sweeper.go

package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/acadmix/server/internal/config"
)

// Sweeper periodically deletes unverified accounts whose verification window
// has closed, freeing their email addresses for re-registration. Each pass is
// idempotent: an account is either expired and removed or left alone.
type Sweeper struct {
	repo     Repository
	interval time.Duration
	logger   *slog.Logger
	done     chan struct{}
}

func NewSweeper(repo Repository, cfg config.SweeperConfig, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		repo:     repo,
		interval: cfg.Interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until ctx is cancelled. Failures are logged and
// the loop keeps going; the next tick retries naturally.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("expired account sweeper started", "interval", s.interval)
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("expired account sweeper stopped")
				return
			case <-ticker.C:
				if _, err := s.RunOnce(ctx); err != nil {
					s.logger.Error("sweep failed", "error", err)
				}
			}
		}
	}()
}

// Wait blocks until the sweep loop has exited after Start's ctx is cancelled.
func (s *Sweeper) Wait() {
	<-s.done
}

func (s *Sweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	result, err := s.repo.SweepExpired(ctx, time.Now())
	if err != nil {
		return SweepResult{}, err
	}
	if result.Users > 0 {
		s.logger.Info("swept expired unverified accounts",
			"users", result.Users, "profiles", result.Profiles)
	}
	return result, nil
}
