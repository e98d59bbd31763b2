package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wongtawee/booking-hotel/internal/domain"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *AdminRepository) CreateHotel(ctx context.Context, hotel domain.Hotel) error {
	const stmt = `
INSERT INTO hotels (id, name, location, rating, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt, hotel.ID, hotel.Name, hotel.Location, hotel.Rating, hotel.CreatedAt)
	if err != nil {
		return fmt.Errorf("create hotel: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	const query = `SELECT id, name, location, rating, created_at FROM hotels ORDER BY name`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Location, &h.Rating, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hotels: %w", err)
	}
	return out, nil
}

func (r *AdminRepository) GetHotel(ctx context.Context, hotelID string) (domain.Hotel, error) {
	const query = `SELECT id, name, location, rating, created_at FROM hotels WHERE id = $1`

	var h domain.Hotel
	err := r.queryRow(ctx, query, hotelID).Scan(&h.ID, &h.Name, &h.Location, &h.Rating, &h.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Hotel{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Hotel{}, domain.ErrHotelNotFound
		}
		return domain.Hotel{}, fmt.Errorf("get hotel: %w", err)
	}
	return h, nil
}

func (r *AdminRepository) CreateRoom(ctx context.Context, room domain.Room) error {
	const stmt = `
INSERT INTO rooms (id, hotel_id, room_type, price_per_night, capacity, base_occupancy, total_units, is_available, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		room.ID, room.HotelID, room.RoomType, room.PricePerNight,
		room.Capacity, room.BaseOccupancy, room.TotalUnits, room.IsAvailable,
		room.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrHotelNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListRoomsByHotel(ctx context.Context, hotelID string) ([]domain.Room, error) {
	const query = `
SELECT id, hotel_id, room_type, price_per_night, capacity, base_occupancy, total_units, is_available, created_at
FROM rooms
WHERE hotel_id = $1
ORDER BY room_type`

	rows, err := r.query(ctx, query, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(
			&room.ID, &room.HotelID, &room.RoomType, &room.PricePerNight,
			&room.Capacity, &room.BaseOccupancy, &room.TotalUnits, &room.IsAvailable,
			&room.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}
	return out, nil
}

func (r *AdminRepository) CountHoldsByRoom(ctx context.Context, roomID string) (int, error) {
	const query = `SELECT COUNT(*) FROM holds WHERE room_id = $1`

	var count int
	if err := r.queryRow(ctx, query, roomID).Scan(&count); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("count holds by room: %w", err)
	}
	return count, nil
}

func (r *AdminRepository) DeleteRoom(ctx context.Context, roomID string) error {
	const stmt = `DELETE FROM rooms WHERE id = $1`

	tag, err := r.exec(ctx, stmt, roomID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

func (r *AdminRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *AdminRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *AdminRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
