package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SweepRepository struct {
	pool *pgxpool.Pool
}

func NewSweepRepository(pool *pgxpool.Pool) *SweepRepository {
	return &SweepRepository{pool: pool}
}

func (r *SweepRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *SweepRepository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]string, error) {
	const query = `
SELECT id FROM bookings
WHERE status = 'pending' AND expires_at <= $1
ORDER BY expires_at
LIMIT $2`

	rows, err := r.query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired pending: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan booking id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired pending: %w", err)
	}
	return ids, nil
}

// SetExpired is a conditional transition: it only fires while the row
// is still pending, so a confirm or cancel that committed first wins.
func (r *SweepRepository) SetExpired(ctx context.Context, bookingID string) (bool, error) {
	const stmt = `UPDATE bookings SET status = 'expired' WHERE id = $1 AND status = 'pending'`

	tag, err := r.exec(ctx, stmt, bookingID)
	if err != nil {
		return false, fmt.Errorf("set expired: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SweepRepository) DeleteHoldByBooking(ctx context.Context, bookingID string) error {
	const stmt = `DELETE FROM holds WHERE booking_id = $1`

	if _, err := r.exec(ctx, stmt, bookingID); err != nil {
		return fmt.Errorf("delete hold: %w", err)
	}
	return nil
}

func (r *SweepRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SweepRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
