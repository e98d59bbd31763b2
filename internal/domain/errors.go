package domain

import "errors"

var (
	ErrHotelNotFound   = errors.New("hotel not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidID       = errors.New("invalid id")
)

var (
	ErrNoCapacity       = errors.New("no rooms available for the selected dates")
	ErrHoldExpired      = errors.New("booking hold expired")
	ErrNotPending       = errors.New("booking is not pending")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrNotCancellable   = errors.New("booking can no longer be cancelled")
	ErrRoomHasLiveHolds = errors.New("room has active or confirmed holds")
	ErrPaidNotDeletable = errors.New("paid bookings must be cancelled, not deleted")
)

var (
	ErrInvalidStay       = errors.New("check-out must be after check-in")
	ErrStayInPast        = errors.New("check-in date is in the past")
	ErrStayTooLong       = errors.New("booking period exceeds the maximum stay")
	ErrInvalidGuestCount = errors.New("guest count outside the room's capacity")
	ErrNegativePrice     = errors.New("total price cannot be negative")
	ErrPriceMismatch     = errors.New("total price does not match the quoted price")
	ErrNameRequired      = errors.New("name is required")
	ErrInvalidCapacity   = errors.New("capacity must be between 1 and 10")
	ErrInvalidUnits      = errors.New("total units must be at least 1")
	ErrInvalidRoomType   = errors.New("unknown room type")
	ErrPaymentRefMissing = errors.New("payment reference is required")
)

var ErrForbidden = errors.New("actor is not allowed to perform this action")

// Kind buckets domain errors into the categories an API layer maps to
// responses. Store failures that carry no domain sentinel classify as
// KindUnavailable so callers know a retry may succeed.
type Kind int

const (
	KindUnavailable Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindForbidden
)

func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrHotelNotFound),
		errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrBookingNotFound):
		return KindNotFound
	case errors.Is(err, ErrNoCapacity),
		errors.Is(err, ErrHoldExpired),
		errors.Is(err, ErrNotPending),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrNotCancellable),
		errors.Is(err, ErrRoomHasLiveHolds),
		errors.Is(err, ErrPaidNotDeletable):
		return KindConflict
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidStay),
		errors.Is(err, ErrStayInPast),
		errors.Is(err, ErrStayTooLong),
		errors.Is(err, ErrInvalidGuestCount),
		errors.Is(err, ErrNegativePrice),
		errors.Is(err, ErrPriceMismatch),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrInvalidCapacity),
		errors.Is(err, ErrInvalidUnits),
		errors.Is(err, ErrInvalidRoomType),
		errors.Is(err, ErrPaymentRefMissing):
		return KindValidation
	default:
		return KindUnavailable
	}
}
