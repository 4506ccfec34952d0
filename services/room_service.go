package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"motel-backend/models"
	"motel-backend/notify"
	"motel-backend/store"
)

var roomTransitions = map[models.RoomStatus][]models.RoomStatus{
	models.RoomLibre:     {models.RoomOcupada, models.RoomBloqueada},
	models.RoomOcupada:   {models.RoomSucia},
	models.RoomSucia:     {models.RoomLibre},
	models.RoomBloqueada: {models.RoomLibre},
}

func CanTransition(from, to models.RoomStatus) bool {
	for _, next := range roomTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RoomService is the room status registry plus the room catalog.
type RoomService struct {
	Store  store.Store
	log    *zap.Logger
	notify notify.Sink
}

func NewRoomService(st store.Store, log *zap.Logger, sink notify.Sink) *RoomService {
	return &RoomService{Store: st, log: log.Named("rooms"), notify: sink}
}

// Transition moves room to the given status with a conditional write against
// the status it was read with. It only touches the room row.
func (s *RoomService) Transition(ctx context.Context, st store.Store, room *models.Room, to models.RoomStatus) error {
	if !to.Valid() || !CanTransition(room.Status, to) {
		return ErrInvalidTransition.With("room %s: %s -> %s not allowed", room.RoomNumber, room.Status, to)
	}
	if err := st.UpdateRoomStatus(ctx, room.ID, room.Status, to); err != nil {
		return fromStore(err, ErrRoomNotFound)
	}
	s.log.Debug("room status changed",
		zap.Uint("room_id", room.ID),
		zap.String("from", string(room.Status)),
		zap.String("to", string(to)))
	room.Status = to
	return nil
}

// ManualTransition is the operator entry point (cleaning done, blocking a
// room). Occupancy edges belong to the stay lifecycle and are refused here.
func (s *RoomService) ManualTransition(ctx context.Context, roomID uint, to models.RoomStatus) (*models.Room, error) {
	if to == models.RoomOcupada {
		return nil, ErrOccupancyManagedByStay
	}
	var out *models.Room
	err := s.Store.Transaction(ctx, func(tx store.Store) error {
		room, err := tx.GetRoom(ctx, roomID)
		if err != nil {
			return fromStore(err, ErrRoomNotFound)
		}
		if room.Status == models.RoomOcupada {
			return ErrOccupancyManagedByStay
		}
		if err := s.Transition(ctx, tx, room, to); err != nil {
			return err
		}
		out = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify.Notify(notify.LevelInfo, "Room status", fmt.Sprintf("Room %s is now %s", out.RoomNumber, out.Status))
	return out, nil
}

func (s *RoomService) GetAll(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.Store.ListRooms(ctx)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	room, err := s.Store.GetRoom(ctx, id)
	if err != nil {
		return nil, fromStore(err, ErrRoomNotFound)
	}
	return room, nil
}

// Create registers a new room. New rooms always start LIBRE or BLOQUEADA.
func (s *RoomService) Create(ctx context.Context, room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return ErrInvalidRoom.With("room number is required")
	}
	if room.Status == "" {
		room.Status = models.RoomLibre
	}
	if room.Status != models.RoomLibre && room.Status != models.RoomBloqueada {
		return ErrInvalidRoom.With("new rooms must be LIBRE or BLOQUEADA, got %q", room.Status)
	}
	if _, err := s.Store.GetRoomType(ctx, room.RoomTypeID); err != nil {
		return fromStore(err, ErrRoomTypeNotFound)
	}
	if err := s.Store.CreateRoom(ctx, room); err != nil {
		return fromStore(err, nil)
	}
	s.log.Info("room created", zap.Uint("room_id", room.ID), zap.String("number", room.RoomNumber))
	return nil
}
