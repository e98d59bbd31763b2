package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wongtawee/booking-hotel/internal/clock"
	"github.com/wongtawee/booking-hotel/internal/domain"
)

func TestAvailabilityService_CheckAvailability(t *testing.T) {
	t.Parallel()

	t.Run("pending hold occupies a unit until it lapses", func(t *testing.T) {
		store := newFakeStore(testRoom(1))
		clk := clock.NewAdjustable(testNow)
		booking := seedPending(t, store, NewBookingService(store, clk, WithHoldTTL(30*time.Minute)))

		svc := NewAvailabilityService(store, clk)

		got, err := svc.CheckAvailability(context.Background(), "room-1", checkIn, checkOut)
		require.NoError(t, err)
		assert.False(t, got.Available)
		assert.Equal(t, 0, got.AvailableUnits)
		assert.Equal(t, 1, got.TotalUnits)

		// Past the TTL the unit frees up even though the sweeper has
		// not touched the booking row.
		clk.Advance(31 * time.Minute)

		got, err = svc.CheckAvailability(context.Background(), "room-1", checkIn, checkOut)
		require.NoError(t, err)
		assert.True(t, got.Available)
		assert.Equal(t, 1, got.AvailableUnits)
		assert.Equal(t, domain.BookingStatusPending, store.bookings[booking.ID].Status)
	})

	t.Run("confirmed hold never lapses", func(t *testing.T) {
		store := newFakeStore(testRoom(1))
		clk := clock.NewAdjustable(testNow)
		svc := NewBookingService(store, clk)
		booking := seedPending(t, store, svc)
		_, err := svc.ConfirmPayment(context.Background(), booking.ID, domain.Actor{ID: "user-1", Role: domain.RoleGuest}, "pi_123")
		require.NoError(t, err)

		clk.Advance(48 * time.Hour)

		got, err := NewAvailabilityService(store, clk).CheckAvailability(context.Background(), "room-1", checkIn, checkOut)
		require.NoError(t, err)
		assert.False(t, got.Available)
	})

	t.Run("non-overlapping stays do not compete", func(t *testing.T) {
		store := newFakeStore(testRoom(1))
		clk := clock.NewFixed(testNow)
		seedPending(t, store, NewBookingService(store, clk))

		got, err := NewAvailabilityService(store, clk).CheckAvailability(context.Background(), "room-1", checkOut, checkOut.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.True(t, got.Available, "back-to-back stay shares the turnover day")
	})

	t.Run("unknown room", func(t *testing.T) {
		svc := NewAvailabilityService(newFakeStore(), clock.NewFixed(testNow))
		_, err := svc.CheckAvailability(context.Background(), "room-x", checkIn, checkOut)
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})

	t.Run("invalid stay", func(t *testing.T) {
		svc := NewAvailabilityService(newFakeStore(testRoom(1)), clock.NewFixed(testNow))
		_, err := svc.CheckAvailability(context.Background(), "room-1", checkOut, checkIn)
		assert.ErrorIs(t, err, domain.ErrInvalidStay)
	})
}

func TestAvailabilityService_AvailableUnits(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testRoom(2))
	svc := NewBookingService(store, clock.NewFixed(testNow))
	seedPending(t, store, svc)
	seedPending(t, store, svc)

	stay, err := domain.NewStay(checkIn, checkOut)
	require.NoError(t, err)

	avail := NewAvailabilityService(store, clock.NewFixed(testNow))

	free, err := avail.AvailableUnits(context.Background(), "room-1", stay, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, free)

	// An oversold room (holds beyond capacity, e.g. after a manual
	// units reduction) must floor at zero rather than go negative.
	room := store.rooms["room-1"]
	room.TotalUnits = 1
	store.rooms["room-1"] = room

	free, err = avail.AvailableUnits(context.Background(), "room-1", stay, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, free)
}
