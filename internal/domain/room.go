package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoomType string

const (
	RoomTypeStandard     RoomType = "Standard"
	RoomTypeDeluxe       RoomType = "Deluxe"
	RoomTypeSuite        RoomType = "Suite"
	RoomTypeExecutive    RoomType = "Executive"
	RoomTypePresidential RoomType = "Presidential"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite, RoomTypeExecutive, RoomTypePresidential:
		return true
	}
	return false
}

// MaxCapacity is the platform-wide ceiling on guests per room.
const MaxCapacity = 10

// Room is a bookable room type within a hotel. TotalUnits is the number
// of physical rooms of this type; its ledger of holds lives in storage,
// keyed by room id.
type Room struct {
	ID            string
	HotelID       string
	RoomType      RoomType
	PricePerNight decimal.Decimal
	Capacity      int
	BaseOccupancy int
	TotalUnits    int
	IsAvailable   bool
	CreatedAt     time.Time
}

// AcceptsGuests reports whether the count fits this room. Guests are
// bounded by the room's capacity, not the platform ceiling; the ceiling
// constrains capacity itself at room creation.
func (r Room) AcceptsGuests(count int) bool {
	return count >= 1 && count <= r.Capacity
}
