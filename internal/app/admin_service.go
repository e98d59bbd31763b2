package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wongtawee/booking-hotel/internal/clock"
	"github.com/wongtawee/booking-hotel/internal/domain"
)

type AdminRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateHotel(ctx context.Context, hotel domain.Hotel) error
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	GetHotel(ctx context.Context, hotelID string) (domain.Hotel, error)
	CreateRoom(ctx context.Context, room domain.Room) error
	ListRoomsByHotel(ctx context.Context, hotelID string) ([]domain.Room, error)
	CountHoldsByRoom(ctx context.Context, roomID string) (int, error)
	DeleteRoom(ctx context.Context, roomID string) error
}

// AdminService manages the hotel and room catalog.
type AdminService struct {
	repo  AdminRepository
	clock clock.Clock
}

func NewAdminService(repo AdminRepository, clk clock.Clock) *AdminService {
	return &AdminService{
		repo:  repo,
		clock: clk,
	}
}

type CreateHotelInput struct {
	Actor    domain.Actor
	Name     string
	Location string
	Rating   float64
}

func (s *AdminService) CreateHotel(ctx context.Context, in CreateHotelInput) (domain.Hotel, error) {
	if !in.Actor.IsAdmin() {
		return domain.Hotel{}, domain.ErrForbidden
	}
	if in.Name == "" {
		return domain.Hotel{}, domain.ErrNameRequired
	}

	hotel := domain.Hotel{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Location:  in.Location,
		Rating:    in.Rating,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateHotel(ctx, hotel); err != nil {
		return domain.Hotel{}, err
	}
	return hotel, nil
}

func (s *AdminService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.repo.ListHotels(ctx)
}

type CreateRoomInput struct {
	Actor         domain.Actor
	HotelID       string
	RoomType      domain.RoomType
	PricePerNight decimal.Decimal
	Capacity      int
	BaseOccupancy int
	TotalUnits    int
}

func (s *AdminService) CreateRoom(ctx context.Context, in CreateRoomInput) (domain.Room, error) {
	if !in.Actor.IsAdmin() {
		return domain.Room{}, domain.ErrForbidden
	}
	if in.HotelID == "" {
		return domain.Room{}, domain.ErrInvalidID
	}
	if !in.RoomType.Valid() {
		return domain.Room{}, domain.ErrInvalidRoomType
	}
	if in.PricePerNight.IsNegative() {
		return domain.Room{}, domain.ErrNegativePrice
	}
	if in.Capacity < 1 || in.Capacity > domain.MaxCapacity {
		return domain.Room{}, domain.ErrInvalidCapacity
	}
	if in.TotalUnits < 1 {
		return domain.Room{}, domain.ErrInvalidUnits
	}
	if in.BaseOccupancy < 1 || in.BaseOccupancy > in.Capacity {
		in.BaseOccupancy = min(2, in.Capacity)
	}

	if _, err := s.repo.GetHotel(ctx, in.HotelID); err != nil {
		return domain.Room{}, err
	}

	room := domain.Room{
		ID:            uuid.NewString(),
		HotelID:       in.HotelID,
		RoomType:      in.RoomType,
		PricePerNight: in.PricePerNight,
		Capacity:      in.Capacity,
		BaseOccupancy: in.BaseOccupancy,
		TotalUnits:    in.TotalUnits,
		IsAvailable:   true,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

func (s *AdminService) ListRooms(ctx context.Context, hotelID string) ([]domain.Room, error) {
	if hotelID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListRoomsByHotel(ctx, hotelID)
}

// DeleteRoom removes a room that has no holds against it. Rooms with
// live reservations must wait until those are cancelled or expired.
func (s *AdminService) DeleteRoom(ctx context.Context, actor domain.Actor, roomID string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		held, err := s.repo.CountHoldsByRoom(txCtx, roomID)
		if err != nil {
			return err
		}
		if held > 0 {
			return domain.ErrRoomHasLiveHolds
		}
		return s.repo.DeleteRoom(txCtx, roomID)
	})
}
