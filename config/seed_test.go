package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"motel-backend/models"
	"motel-backend/store"
)

func TestSeedDatabase_Idempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	require.NoError(t, SeedDatabase(ctx, st, zap.NewNop()))
	require.NoError(t, SeedDatabase(ctx, st, zap.NewNop()))

	types, err := st.ListRoomTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 4)

	hotels := 0
	for _, rt := range types {
		if rt.IsHotel {
			hotels++
		}
	}
	assert.Equal(t, 1, hotels)

	rooms, err := st.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 12)
	for _, r := range rooms {
		assert.Equal(t, models.RoomLibre, r.Status)
	}
	assert.Equal(t, "101", rooms[0].RoomNumber)
}

func TestNewRedis_DisabledWithoutAddr(t *testing.T) {
	client, err := NewRedis(context.Background(), RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}
