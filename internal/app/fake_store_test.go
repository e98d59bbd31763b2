package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wongtawee/booking-hotel/internal/domain"
)

// fakeStore is an in-memory stand-in for the Postgres repositories.
// WithTx holds a single mutex for the whole callback, which mirrors the
// row-lock serialization concurrent creates rely on.
type fakeStore struct {
	mu       sync.Mutex
	rooms    map[string]domain.Room
	bookings map[string]domain.Booking
	holds    map[string]domain.Hold // keyed by booking id

	// expireErr injects a per-booking failure into SetExpired.
	expireErr map[string]error
	// alsoSweep forces extra ids into ListExpiredPending results to
	// simulate a booking that changed state after being listed.
	alsoSweep []string
}

func newFakeStore(rooms ...domain.Room) *fakeStore {
	f := &fakeStore{
		rooms:     make(map[string]domain.Room),
		bookings:  make(map[string]domain.Booking),
		holds:     make(map[string]domain.Hold),
		expireErr: make(map[string]error),
	}
	for _, r := range rooms {
		f.rooms[r.ID] = r
	}
	return f
}

func (f *fakeStore) WithTx(_ context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(context.Background())
}

func (f *fakeStore) GetRoom(_ context.Context, roomID string) (domain.Room, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func (f *fakeStore) GetRoomForUpdate(ctx context.Context, roomID string) (domain.Room, error) {
	return f.GetRoom(ctx, roomID)
}

func (f *fakeStore) CountLiveHolds(_ context.Context, roomID string, stay domain.Stay, now time.Time) (int, error) {
	count := 0
	for _, h := range f.holds {
		if h.RoomID != roomID || h.Stale(now) {
			continue
		}
		if h.Stay.Overlaps(stay) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CreateBooking(_ context.Context, b domain.Booking) error {
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeStore) CreateHold(_ context.Context, h domain.Hold) error {
	f.holds[h.BookingID] = h
	return nil
}

func (f *fakeStore) GetBooking(_ context.Context, bookingID string) (domain.Booking, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeStore) GetBookingForUpdate(ctx context.Context, bookingID string) (domain.Booking, error) {
	return f.GetBooking(ctx, bookingID)
}

func (f *fakeStore) SetPaid(_ context.Context, bookingID, paymentRef string) error {
	b, ok := f.bookings[bookingID]
	if !ok || b.Status != domain.BookingStatusPending {
		return domain.ErrNotPending
	}
	b.Status = domain.BookingStatusPaid
	b.PaymentReference = paymentRef
	f.bookings[bookingID] = b
	return nil
}

func (f *fakeStore) ConfirmHold(_ context.Context, bookingID string) error {
	h, ok := f.holds[bookingID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	h.Status = domain.HoldStatusConfirmed
	h.ExpiresAt = nil
	f.holds[bookingID] = h
	return nil
}

func (f *fakeStore) SetCancelled(_ context.Context, bookingID string, at time.Time, reason string) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if b.Status != domain.BookingStatusPending && b.Status != domain.BookingStatusPaid {
		return domain.ErrNotCancellable
	}
	b.Status = domain.BookingStatusCancelled
	b.CancelledAt = &at
	b.CancellationReason = reason
	f.bookings[bookingID] = b
	return nil
}

func (f *fakeStore) DeleteHoldByBooking(_ context.Context, bookingID string) error {
	delete(f.holds, bookingID)
	return nil
}

func (f *fakeStore) DeleteBooking(_ context.Context, bookingID string) error {
	if _, ok := f.bookings[bookingID]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(f.bookings, bookingID)
	return nil
}

func (f *fakeStore) ListBookingsByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) ListBookings(_ context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, int, error) {
	var all []domain.Booking
	for _, b := range f.bookings {
		if status == "" || b.Status == status {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakeStore) ListExpiredPending(_ context.Context, now time.Time, limit int) ([]string, error) {
	type expiring struct {
		id string
		at time.Time
	}
	var found []expiring
	for _, b := range f.bookings {
		if b.Status == domain.BookingStatusPending && !b.ExpiresAt.After(now) {
			found = append(found, expiring{b.ID, b.ExpiresAt})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].at.Before(found[j].at) })

	ids := make([]string, 0, len(found)+len(f.alsoSweep))
	for _, e := range found {
		ids = append(ids, e.id)
	}
	ids = append(ids, f.alsoSweep...)
	if limit < len(ids) {
		ids = ids[:limit]
	}
	return ids, nil
}

func (f *fakeStore) SetExpired(_ context.Context, bookingID string) (bool, error) {
	if err := f.expireErr[bookingID]; err != nil {
		return false, err
	}
	b, ok := f.bookings[bookingID]
	if !ok || b.Status != domain.BookingStatusPending {
		return false, nil
	}
	b.Status = domain.BookingStatusExpired
	f.bookings[bookingID] = b
	return true, nil
}
