package domain

import "time"

type HoldStatus string

const (
	HoldStatusProvisional HoldStatus = "provisional"
	HoldStatusConfirmed   HoldStatus = "confirmed"
)

// Hold reserves one unit of a room for a stay. A provisional hold
// carries an expiry; confirming it clears the expiry and makes the
// reservation permanent. Exactly one hold exists per live booking.
type Hold struct {
	ID        string
	RoomID    string
	BookingID string
	Stay      Stay
	Status    HoldStatus
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// Stale reports whether the hold no longer counts against capacity: a
// provisional hold past its expiry is treated as released even before
// the sweeper physically removes it.
func (h Hold) Stale(now time.Time) bool {
	return h.Status == HoldStatusProvisional && h.ExpiresAt != nil && !h.ExpiresAt.After(now)
}
