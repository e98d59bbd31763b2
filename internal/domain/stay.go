package domain

import "time"

// Stay is a half-open date range [CheckIn, CheckOut): a checkout on day
// X and a check-in on day X do not conflict.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func NewStay(checkIn, checkOut time.Time) (Stay, error) {
	s := Stay{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}
	if !s.CheckOut.After(s.CheckIn) {
		return Stay{}, ErrInvalidStay
	}
	return s, nil
}

// Overlaps reports whether two stays share at least one night. Both
// stays must already be valid (check-out strictly after check-in).
func (s Stay) Overlaps(other Stay) bool {
	return s.CheckIn.Before(other.CheckOut) && s.CheckOut.After(other.CheckIn)
}

func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}
