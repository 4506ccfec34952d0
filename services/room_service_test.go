package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motel-backend/models"
)

func TestCanTransition(t *testing.T) {
	all := []models.RoomStatus{models.RoomLibre, models.RoomOcupada, models.RoomSucia, models.RoomBloqueada}
	allowed := map[[2]models.RoomStatus]bool{
		{models.RoomLibre, models.RoomOcupada}:   true,
		{models.RoomOcupada, models.RoomSucia}:   true,
		{models.RoomSucia, models.RoomLibre}:     true,
		{models.RoomLibre, models.RoomBloqueada}: true,
		{models.RoomBloqueada, models.RoomLibre}: true,
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]models.RoomStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransition_RejectsDisallowedEdge(t *testing.T) {
	f := newFixture(t)
	room, err := f.st.GetRoom(f.ctx, f.r101.ID)
	require.NoError(t, err)

	err = f.rooms.Transition(f.ctx, f.st, room, models.RoomSucia)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.RoomLibre, f.roomStatus(t, f.r101.ID))
}

func TestTransition_StaleReadLosesRace(t *testing.T) {
	f := newFixture(t)
	stale, err := f.st.GetRoom(f.ctx, f.r101.ID)
	require.NoError(t, err)

	_, err = f.rooms.ManualTransition(f.ctx, f.r101.ID, models.RoomBloqueada)
	require.NoError(t, err)

	err = f.rooms.Transition(f.ctx, f.st, stale, models.RoomOcupada)
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Equal(t, KindConcurrency, KindOf(err))
	assert.Equal(t, models.RoomBloqueada, f.roomStatus(t, f.r101.ID))
}

func TestManualTransition(t *testing.T) {
	f := newFixture(t)

	_, err := f.rooms.ManualTransition(f.ctx, f.r101.ID, models.RoomOcupada)
	assert.ErrorIs(t, err, ErrOccupancyManagedByStay)

	room, err := f.rooms.ManualTransition(f.ctx, f.r101.ID, models.RoomBloqueada)
	require.NoError(t, err)
	assert.Equal(t, models.RoomBloqueada, room.Status)

	room, err = f.rooms.ManualTransition(f.ctx, f.r101.ID, models.RoomLibre)
	require.NoError(t, err)
	assert.Equal(t, models.RoomLibre, room.Status)

	f.quick(t, f.r102.ID, 2)
	_, err = f.rooms.ManualTransition(f.ctx, f.r102.ID, models.RoomSucia)
	assert.ErrorIs(t, err, ErrOccupancyManagedByStay)

	_, err = f.rooms.ManualTransition(f.ctx, 9999, models.RoomLibre)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomCatalog(t *testing.T) {
	f := newFixture(t)

	err := f.rooms.Create(f.ctx, &models.Room{RoomNumber: "101", RoomTypeID: f.doble.ID})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = f.rooms.Create(f.ctx, &models.Room{RoomNumber: "  ", RoomTypeID: f.doble.ID})
	assert.ErrorIs(t, err, ErrInvalidRoom)

	err = f.rooms.Create(f.ctx, &models.Room{RoomNumber: "401", RoomTypeID: f.doble.ID, Status: models.RoomOcupada})
	assert.ErrorIs(t, err, ErrInvalidRoom)

	err = f.rooms.Create(f.ctx, &models.Room{RoomNumber: "402", RoomTypeID: 9999})
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)

	blocked := models.Room{RoomNumber: "403", RoomTypeID: f.doble.ID, Status: models.RoomBloqueada}
	require.NoError(t, f.rooms.Create(f.ctx, &blocked))

	rooms, err := f.rooms.GetAll(f.ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 5)
	assert.Equal(t, "101", rooms[0].RoomNumber)
	assert.Equal(t, "Doble", rooms[0].RoomType.Name)

	_, err = f.rooms.GetByID(f.ctx, 9999)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomTypeCatalog(t *testing.T) {
	f := newFixture(t)
	types := NewRoomTypeService(f.st)

	err := types.Create(f.ctx, &models.RoomType{Name: "Doble", MaxPeople: 2})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = types.Create(f.ctx, &models.RoomType{Name: "Suite", MaxPeople: 0})
	assert.ErrorIs(t, err, ErrInvalidRoomType)

	err = types.Create(f.ctx, &models.RoomType{Name: "Suite", MaxPeople: 2, BasePrice: dec("-1")})
	assert.ErrorIs(t, err, ErrInvalidRoomType)

	err = types.Create(f.ctx, &models.RoomType{Name: "Suite", MaxPeople: 2, BasePrice: dec("300"), ExtraHourPrice: dec("80.005")})
	assert.ErrorIs(t, err, ErrInvalidRoomType)

	all, err := types.GetAll(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rt, err := types.GetByID(f.ctx, f.jacuzzi.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jacuzzi", rt.Name)
}
