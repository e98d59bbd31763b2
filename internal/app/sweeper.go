package app

import (
	"context"
	"time"
)

type SweeperRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// ListExpiredPending returns ids of pending bookings whose hold
	// lapsed at or before now, oldest expiry first.
	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]string, error)
	// SetExpired transitions pending -> expired and reports whether a
	// row actually changed, so a booking confirmed or cancelled in the
	// meantime is left alone.
	SetExpired(ctx context.Context, bookingID string) (bool, error)
	DeleteHoldByBooking(ctx context.Context, bookingID string) error
}

// Sweeper expires lapsed pending bookings and releases their holds. It
// keeps no timer of its own; a scheduler calls Sweep on a cadence with
// an explicit instant, which also makes it trivial to drive from tests.
type Sweeper struct {
	repo      SweeperRepository
	batchSize int
}

const defaultSweepBatch = 500

func NewSweeper(repo SweeperRepository) *Sweeper {
	return &Sweeper{
		repo:      repo,
		batchSize: defaultSweepBatch,
	}
}

type SweepFailure struct {
	BookingID string
	Err       error
}

type SweepResult struct {
	// Expired is how many bookings this sweep transitioned.
	Expired int
	// Skipped counts bookings another transition beat us to.
	Skipped  int
	Failures []SweepFailure
}

// Sweep processes each lapsed booking in its own transaction so one bad
// record cannot abort the batch. Re-running at the same instant is a
// no-op: the conditional transition only fires on still-pending rows.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	ids, err := s.repo.ListExpiredPending(ctx, now, s.batchSize)
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
			changed, err := s.repo.SetExpired(txCtx, id)
			if err != nil {
				return err
			}
			if !changed {
				result.Skipped++
				return nil
			}
			if err := s.repo.DeleteHoldByBooking(txCtx, id); err != nil {
				return err
			}
			result.Expired++
			return nil
		})
		if err != nil {
			result.Failures = append(result.Failures, SweepFailure{BookingID: id, Err: err})
		}
	}
	return result, nil
}
