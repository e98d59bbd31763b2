package app

import (
	"context"
	"time"

	"github.com/wongtawee/booking-hotel/internal/clock"
	"github.com/wongtawee/booking-hotel/internal/domain"
)

type AvailabilityRepository interface {
	GetRoom(ctx context.Context, roomID string) (domain.Room, error)
	// CountLiveHolds counts holds on the room overlapping the stay,
	// excluding provisional holds whose expiry is at or before now.
	CountLiveHolds(ctx context.Context, roomID string, stay domain.Stay, now time.Time) (int, error)
}

type AvailabilityService struct {
	repo  AvailabilityRepository
	clock clock.Clock
}

func NewAvailabilityService(repo AvailabilityRepository, clk clock.Clock) *AvailabilityService {
	return &AvailabilityService{
		repo:  repo,
		clock: clk,
	}
}

// AvailableUnits returns how many units of the room are free for the
// stay as of the given instant. Stale provisional holds count as
// already released even if the sweeper has not removed them yet.
func (s *AvailabilityService) AvailableUnits(ctx context.Context, roomID string, stay domain.Stay, asOf time.Time) (int, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}

	held, err := s.repo.CountLiveHolds(ctx, roomID, stay, asOf)
	if err != nil {
		return 0, err
	}

	free := room.TotalUnits - held
	if free < 0 {
		free = 0
	}
	return free, nil
}

type Availability struct {
	RoomID         string
	Available      bool
	AvailableUnits int
	TotalUnits     int
	Stay           domain.Stay
}

// CheckAvailability answers an availability query at wall-clock time.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (Availability, error) {
	stay, err := domain.NewStay(checkIn, checkOut)
	if err != nil {
		return Availability{}, err
	}

	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return Availability{}, err
	}

	held, err := s.repo.CountLiveHolds(ctx, roomID, stay, s.clock.Now())
	if err != nil {
		return Availability{}, err
	}

	free := room.TotalUnits - held
	if free < 0 {
		free = 0
	}
	return Availability{
		RoomID:         roomID,
		Available:      free > 0,
		AvailableUnits: free,
		TotalUnits:     room.TotalUnits,
		Stay:           stay,
	}, nil
}
