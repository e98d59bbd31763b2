package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wongtawee/booking-hotel/internal/app"
	"github.com/wongtawee/booking-hotel/internal/clock"
)

type sweeper interface {
	Sweep(ctx context.Context, now time.Time) (app.SweepResult, error)
}

// Scheduler drives the expiration sweeper on a fixed interval. All
// timer state lives here; the sweeper itself is a pure function of the
// store and the instant it is handed.
type Scheduler struct {
	sweeper  sweeper
	clock    clock.Clock
	interval time.Duration
	log      zerolog.Logger
}

func New(sw sweeper, clk clock.Clock, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sw,
		clock:    clk,
		interval: interval,
		log:      log,
	}
}

// Run sweeps once immediately and then on every tick until the context
// is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Msg("expiration sweeper started")

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("expiration sweeper stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.clock.Now()
	result, err := s.sweeper.Sweep(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep failed")
		return
	}

	for _, f := range result.Failures {
		s.log.Error().Err(f.Err).Str("booking_id", f.BookingID).Msg("failed to expire booking")
	}
	if result.Expired > 0 || result.Skipped > 0 || len(result.Failures) > 0 {
		s.log.Info().
			Int("expired", result.Expired).
			Int("skipped", result.Skipped).
			Int("failed", len(result.Failures)).
			Msg("sweep completed")
	}
}
