package services

import (
	"context"
	"strings"

	"motel-backend/models"
	"motel-backend/store"
)

type RoomTypeService struct {
	Store store.Store
}

func NewRoomTypeService(st store.Store) *RoomTypeService {
	return &RoomTypeService{Store: st}
}

func validateRoomType(rt *models.RoomType) error {
	switch {
	case strings.TrimSpace(rt.Name) == "":
		return ErrInvalidRoomType.With("name is required")
	case rt.BasePrice.IsNegative(), rt.ExtraPersonPrice.IsNegative(), rt.ExtraHourPrice.IsNegative():
		return ErrInvalidRoomType.With("prices must not be negative")
	case !hasCents(rt.BasePrice), !hasCents(rt.ExtraPersonPrice), !hasCents(rt.ExtraHourPrice):
		return ErrInvalidRoomType.With("prices must not have more than two decimals")
	case rt.MaxPeople < 1:
		return ErrInvalidRoomType.With("max people must be at least 1")
	case rt.WeekdayHours < 0 || rt.WeekendHours < 0:
		return ErrInvalidRoomType.With("hours must not be negative")
	}
	return nil
}

func (s *RoomTypeService) Create(ctx context.Context, rt *models.RoomType) error {
	rt.Name = strings.TrimSpace(rt.Name)
	if err := validateRoomType(rt); err != nil {
		return err
	}
	return fromStore(s.Store.CreateRoomType(ctx, rt), nil)
}

func (s *RoomTypeService) GetAll(ctx context.Context) ([]models.RoomType, error) {
	types, err := s.Store.ListRoomTypes(ctx)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	return types, nil
}

func (s *RoomTypeService) GetByID(ctx context.Context, id uint) (*models.RoomType, error) {
	rt, err := s.Store.GetRoomType(ctx, id)
	if err != nil {
		return nil, fromStore(err, ErrRoomTypeNotFound)
	}
	return rt, nil
}
