package app

import (
	"github.com/shopspring/decimal"

	"github.com/wongtawee/booking-hotel/internal/domain"
)

// Quote computes the price of a stay: nights times the nightly rate,
// plus a per-night surcharge for each guest above the room's base
// occupancy.
func Quote(room domain.Room, stay domain.Stay, guests int, extraGuestRate decimal.Decimal) decimal.Decimal {
	nights := decimal.NewFromInt(int64(stay.Nights()))
	total := room.PricePerNight.Mul(nights)

	extra := guests - room.BaseOccupancy
	if extra > 0 {
		total = total.Add(extraGuestRate.Mul(decimal.NewFromInt(int64(extra))).Mul(nights))
	}
	return total
}
