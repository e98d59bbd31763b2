package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

// Booking is a guest's reservation of one room unit for a stay. A
// pending booking holds the unit until ExpiresAt; payment promotes it
// to paid, the sweeper demotes it to expired, and a user or admin may
// cancel it. Cancelled and expired are terminal.
type Booking struct {
	ID                 string
	RoomID             string
	HotelID            string
	UserID             string
	GuestName          string
	Email              string
	Phone              string
	Stay               Stay
	Guests             int
	TotalPrice         decimal.Decimal
	Status             BookingStatus
	CreatedAt          time.Time
	ExpiresAt          time.Time
	CancelledAt        *time.Time
	CancellationReason string
	PaymentReference   string
}

// CanTransition reports whether the status change is legal. Terminal
// states absorb; paid bookings may still be cancelled.
func CanTransition(from, to BookingStatus) bool {
	switch from {
	case BookingStatusPending:
		return to == BookingStatusPaid || to == BookingStatusCancelled || to == BookingStatusExpired
	case BookingStatusPaid:
		return to == BookingStatusCancelled
	default:
		return false
	}
}

// RemainingHold is how long a pending booking's hold has left at the
// given instant, floored at zero. Zero for non-pending bookings.
func (b Booking) RemainingHold(now time.Time) time.Duration {
	if b.Status != BookingStatusPending {
		return 0
	}
	remaining := b.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
