package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wongtawee/booking-hotel/internal/domain"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const roomColumns = `id, hotel_id, room_type, price_per_night, capacity, base_occupancy, total_units, is_available, created_at`

func (r *BookingRepository) GetRoom(ctx context.Context, roomID string) (domain.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE id = $1`, roomColumns)
	return r.scanRoom(r.queryRow(ctx, query, roomID))
}

func (r *BookingRepository) GetRoomForUpdate(ctx context.Context, roomID string) (domain.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE id = $1 FOR UPDATE`, roomColumns)
	return r.scanRoom(r.queryRow(ctx, query, roomID))
}

func (r *BookingRepository) scanRoom(row pgx.Row) (domain.Room, error) {
	var room domain.Room
	err := row.Scan(
		&room.ID,
		&room.HotelID,
		&room.RoomType,
		&room.PricePerNight,
		&room.Capacity,
		&room.BaseOccupancy,
		&room.TotalUnits,
		&room.IsAvailable,
		&room.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Room{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		return domain.Room{}, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

// CountLiveHolds counts holds overlapping the half-open stay, treating
// lapsed provisional holds as already released. Staleness lives in the
// predicate so availability is correct even between sweeps.
func (r *BookingRepository) CountLiveHolds(ctx context.Context, roomID string, stay domain.Stay, now time.Time) (int, error) {
	const query = `
SELECT COUNT(*)
FROM holds
WHERE room_id = $1
  AND check_in < $3 AND check_out > $2
  AND (status = 'confirmed' OR expires_at > $4)`

	var count int
	if err := r.queryRow(ctx, query, roomID, stay.CheckIn, stay.CheckOut, now).Scan(&count); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("count live holds: %w", err)
	}
	return count, nil
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b domain.Booking) error {
	const stmt = `
INSERT INTO bookings (id, room_id, hotel_id, user_id, guest_name, email, phone,
	check_in, check_out, guests, total_price, status, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.exec(ctx, stmt,
		b.ID, b.RoomID, b.HotelID, b.UserID, b.GuestName, b.Email, b.Phone,
		b.Stay.CheckIn, b.Stay.CheckOut, b.Guests, b.TotalPrice, b.Status,
		b.CreatedAt, b.ExpiresAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRoomNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) CreateHold(ctx context.Context, h domain.Hold) error {
	const stmt = `
INSERT INTO holds (id, room_id, booking_id, check_in, check_out, status, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		h.ID, h.RoomID, h.BookingID, h.Stay.CheckIn, h.Stay.CheckOut,
		h.Status, h.ExpiresAt, h.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrNoCapacity
		}
		if isForeignKeyViolation(err) {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("create hold: %w", err)
	}
	return nil
}

const bookingColumns = `id, room_id, hotel_id, user_id, guest_name, email, phone,
	check_in, check_out, guests, total_price, status, created_at, expires_at,
	cancelled_at, cancellation_reason, payment_reference`

func (r *BookingRepository) GetBooking(ctx context.Context, bookingID string) (domain.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)
	return r.scanBooking(r.queryRow(ctx, query, bookingID))
}

func (r *BookingRepository) GetBookingForUpdate(ctx context.Context, bookingID string) (domain.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1 FOR UPDATE`, bookingColumns)
	return r.scanBooking(r.queryRow(ctx, query, bookingID))
}

func (r *BookingRepository) scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.RoomID, &b.HotelID, &b.UserID, &b.GuestName, &b.Email, &b.Phone,
		&b.Stay.CheckIn, &b.Stay.CheckOut, &b.Guests, &b.TotalPrice, &b.Status,
		&b.CreatedAt, &b.ExpiresAt, &b.CancelledAt, &b.CancellationReason,
		&b.PaymentReference,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Booking{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) SetPaid(ctx context.Context, bookingID, paymentRef string) error {
	const stmt = `
UPDATE bookings SET status = 'paid', payment_reference = $2
WHERE id = $1 AND status = 'pending'`

	tag, err := r.exec(ctx, stmt, bookingID, paymentRef)
	if err != nil {
		return fmt.Errorf("set paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotPending
	}
	return nil
}

func (r *BookingRepository) ConfirmHold(ctx context.Context, bookingID string) error {
	const stmt = `
UPDATE holds SET status = 'confirmed', expires_at = NULL
WHERE booking_id = $1 AND status = 'provisional'`

	tag, err := r.exec(ctx, stmt, bookingID)
	if err != nil {
		return fmt.Errorf("confirm hold: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("confirm hold: no provisional hold for booking %s", bookingID)
	}
	return nil
}

func (r *BookingRepository) SetCancelled(ctx context.Context, bookingID string, at time.Time, reason string) error {
	const stmt = `
UPDATE bookings SET status = 'cancelled', cancelled_at = $2, cancellation_reason = $3
WHERE id = $1 AND status IN ('pending', 'paid')`

	tag, err := r.exec(ctx, stmt, bookingID, at, reason)
	if err != nil {
		return fmt.Errorf("set cancelled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotCancellable
	}
	return nil
}

func (r *BookingRepository) DeleteHoldByBooking(ctx context.Context, bookingID string) error {
	const stmt = `DELETE FROM holds WHERE booking_id = $1`

	if _, err := r.exec(ctx, stmt, bookingID); err != nil {
		return fmt.Errorf("delete hold: %w", err)
	}
	return nil
}

func (r *BookingRepository) DeleteBooking(ctx context.Context, bookingID string) error {
	const stmt = `DELETE FROM bookings WHERE id = $1`

	tag, err := r.exec(ctx, stmt, bookingID)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, bookingColumns)

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", err)
	}
	defer rows.Close()

	return r.collectBookings(rows)
}

func (r *BookingRepository) ListBookings(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, int, error) {
	where := ``
	countArgs := []any{}
	if status != "" {
		where = `WHERE status = $1`
		countArgs = append(countArgs, status)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM bookings %s`, where)
	if err := r.queryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	args := append([]any{}, countArgs...)
	query := fmt.Sprintf(
		`SELECT %s FROM bookings %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings, err := r.collectBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *BookingRepository) collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.RoomID, &b.HotelID, &b.UserID, &b.GuestName, &b.Email, &b.Phone,
			&b.Stay.CheckIn, &b.Stay.CheckOut, &b.Guests, &b.TotalPrice, &b.Status,
			&b.CreatedAt, &b.ExpiresAt, &b.CancelledAt, &b.CancellationReason,
			&b.PaymentReference,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return out, nil
}

func (r *BookingRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *BookingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *BookingRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
