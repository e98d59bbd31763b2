package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wongtawee/booking-hotel/internal/clock"
	"github.com/wongtawee/booking-hotel/internal/domain"
)

type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// GetRoomForUpdate locks the room row for the rest of the
	// transaction, serializing concurrent creates for the same room.
	GetRoomForUpdate(ctx context.Context, roomID string) (domain.Room, error)
	CountLiveHolds(ctx context.Context, roomID string, stay domain.Stay, now time.Time) (int, error)
	CreateBooking(ctx context.Context, booking domain.Booking) error
	CreateHold(ctx context.Context, hold domain.Hold) error
	GetBooking(ctx context.Context, bookingID string) (domain.Booking, error)
	GetBookingForUpdate(ctx context.Context, bookingID string) (domain.Booking, error)
	// SetPaid transitions pending -> paid; it must refuse any other
	// starting state even though the caller holds the row lock.
	SetPaid(ctx context.Context, bookingID, paymentRef string) error
	ConfirmHold(ctx context.Context, bookingID string) error
	SetCancelled(ctx context.Context, bookingID string, at time.Time, reason string) error
	DeleteHoldByBooking(ctx context.Context, bookingID string) error
	DeleteBooking(ctx context.Context, bookingID string) error
	ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListBookings(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, int, error)
}

type BookingService struct {
	repo          BookingRepository
	clock         clock.Clock
	holdTTL       time.Duration
	maxStayNights int
	guestRate     decimal.Decimal
}

const (
	defaultHoldTTL       = 30 * time.Minute
	defaultMaxStayNights = 30
)

func NewBookingService(repo BookingRepository, clk clock.Clock, opts ...BookingServiceOption) *BookingService {
	svc := &BookingService{
		repo:          repo,
		clock:         clk,
		holdTTL:       defaultHoldTTL,
		maxStayNights: defaultMaxStayNights,
		guestRate:     decimal.NewFromInt(300),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type BookingServiceOption func(*BookingService)

// WithHoldTTL overrides how long a pending booking keeps its hold.
func WithHoldTTL(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

// WithMaxStayNights overrides the longest bookable stay.
func WithMaxStayNights(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.maxStayNights = n
		}
	}
}

// WithExtraGuestRate overrides the nightly surcharge per extra guest.
func WithExtraGuestRate(rate decimal.Decimal) BookingServiceOption {
	return func(s *BookingService) {
		if !rate.IsNegative() {
			s.guestRate = rate
		}
	}
}

type CreateBookingInput struct {
	RoomID     string
	Actor      domain.Actor
	GuestName  string
	Email      string
	Phone      string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	TotalPrice decimal.Decimal
}

// Create places a pending booking and its provisional hold in a single
// transaction. The room row is locked before the capacity check, so
// two concurrent creates for overlapping dates cannot both pass it.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	stay, err := domain.NewStay(in.CheckIn, in.CheckOut)
	if err != nil {
		return domain.Booking{}, err
	}

	now := s.clock.Now()
	if stay.CheckIn.Before(startOfDay(now)) {
		return domain.Booking{}, domain.ErrStayInPast
	}
	if stay.Nights() > s.maxStayNights {
		return domain.Booking{}, domain.ErrStayTooLong
	}
	if in.TotalPrice.IsNegative() {
		return domain.Booking{}, domain.ErrNegativePrice
	}
	if in.GuestName == "" {
		return domain.Booking{}, domain.ErrNameRequired
	}

	var result domain.Booking
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		room, err := s.repo.GetRoomForUpdate(txCtx, in.RoomID)
		if err != nil {
			return err
		}
		if !room.IsAvailable {
			return domain.ErrNoCapacity
		}
		if !room.AcceptsGuests(in.Guests) {
			return domain.ErrInvalidGuestCount
		}
		if !in.TotalPrice.Equal(Quote(room, stay, in.Guests, s.guestRate)) {
			return domain.ErrPriceMismatch
		}

		held, err := s.repo.CountLiveHolds(txCtx, in.RoomID, stay, now)
		if err != nil {
			return err
		}
		if held >= room.TotalUnits {
			return domain.ErrNoCapacity
		}

		booking := domain.Booking{
			ID:         uuid.NewString(),
			RoomID:     room.ID,
			HotelID:    room.HotelID,
			UserID:     in.Actor.ID,
			GuestName:  in.GuestName,
			Email:      in.Email,
			Phone:      in.Phone,
			Stay:       stay,
			Guests:     in.Guests,
			TotalPrice: in.TotalPrice,
			Status:     domain.BookingStatusPending,
			CreatedAt:  now,
			ExpiresAt:  now.Add(s.holdTTL),
		}
		if err := s.repo.CreateBooking(txCtx, booking); err != nil {
			return err
		}

		expiresAt := booking.ExpiresAt
		hold := domain.Hold{
			ID:        uuid.NewString(),
			RoomID:    room.ID,
			BookingID: booking.ID,
			Stay:      stay,
			Status:    domain.HoldStatusProvisional,
			ExpiresAt: &expiresAt,
			CreatedAt: now,
		}
		if err := s.repo.CreateHold(txCtx, hold); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return result, nil
}

// ConfirmPayment promotes a pending booking to paid once the payment
// provider has settled, flipping its hold to confirmed. A booking whose
// hold already lapsed cannot be revived, even if the sweeper has not
// expired it yet; the guest has to rebook.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID string, actor domain.Actor, paymentRef string) (domain.Booking, error) {
	if paymentRef == "" {
		return domain.Booking{}, domain.ErrPaymentRefMissing
	}

	now := s.clock.Now()
	var result domain.Booking

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.GetBookingForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}
		if !actor.CanManage(booking.UserID) {
			return domain.ErrForbidden
		}
		if booking.Status == domain.BookingStatusExpired {
			return domain.ErrHoldExpired
		}
		if booking.Status != domain.BookingStatusPending {
			return domain.ErrNotPending
		}
		if !booking.ExpiresAt.After(now) {
			return domain.ErrHoldExpired
		}

		if err := s.repo.SetPaid(txCtx, bookingID, paymentRef); err != nil {
			return err
		}
		if err := s.repo.ConfirmHold(txCtx, bookingID); err != nil {
			return err
		}

		booking.Status = domain.BookingStatusPaid
		booking.PaymentReference = paymentRef
		result = booking
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return result, nil
}

// Cancel marks a pending or paid booking cancelled and releases its
// hold. Expired bookings cannot be cancelled; whichever of the sweeper
// and the caller commits first wins.
func (s *BookingService) Cancel(ctx context.Context, bookingID string, actor domain.Actor, reason string) (domain.Booking, error) {
	now := s.clock.Now()
	var result domain.Booking

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.GetBookingForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}
		if !actor.CanManage(booking.UserID) {
			return domain.ErrForbidden
		}
		if booking.Status == domain.BookingStatusCancelled {
			return domain.ErrAlreadyCancelled
		}
		if !domain.CanTransition(booking.Status, domain.BookingStatusCancelled) {
			return domain.ErrNotCancellable
		}

		if err := s.repo.SetCancelled(txCtx, bookingID, now, reason); err != nil {
			return err
		}
		if err := s.repo.DeleteHoldByBooking(txCtx, bookingID); err != nil {
			return err
		}

		booking.Status = domain.BookingStatusCancelled
		booking.CancelledAt = &now
		booking.CancellationReason = reason
		result = booking
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return result, nil
}

// Delete hard-removes a booking and any surviving hold. Only the owner
// may delete, and paid bookings must go through Cancel first so the
// cancellation trail is kept.
func (s *BookingService) Delete(ctx context.Context, bookingID string, actor domain.Actor) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.GetBookingForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}
		if booking.UserID != actor.ID {
			return domain.ErrForbidden
		}
		if booking.Status == domain.BookingStatusPaid {
			return domain.ErrPaidNotDeletable
		}

		if err := s.repo.DeleteHoldByBooking(txCtx, bookingID); err != nil {
			return err
		}
		return s.repo.DeleteBooking(txCtx, bookingID)
	})
}

func (s *BookingService) GetByID(ctx context.Context, bookingID string, actor domain.Actor) (domain.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !actor.CanManage(booking.UserID) {
		return domain.Booking{}, domain.ErrForbidden
	}
	return booking, nil
}

// BookingWithCountdown pairs a booking with the remaining hold time so
// clients can render an expiry timer for pending bookings.
type BookingWithCountdown struct {
	domain.Booking
	RemainingHold time.Duration
}

func (s *BookingService) ListByUser(ctx context.Context, userID string, actor domain.Actor) ([]BookingWithCountdown, error) {
	if !actor.CanManage(userID) {
		return nil, domain.ErrForbidden
	}

	bookings, err := s.repo.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]BookingWithCountdown, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingWithCountdown{
			Booking:       b,
			RemainingHold: b.RemainingHold(now),
		})
	}
	return out, nil
}

type BookingFilter struct {
	Status domain.BookingStatus
	Limit  int
	Offset int
}

// ListAll pages through every booking, optionally filtered by status.
// Admin only.
func (s *BookingService) ListAll(ctx context.Context, actor domain.Actor, filter BookingFilter) ([]domain.Booking, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, domain.ErrForbidden
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListBookings(ctx, filter.Status, filter.Limit, filter.Offset)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
