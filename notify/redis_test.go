package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisSink_PublishAppendsToStream(t *testing.T) {
	_, client := setupTestRedis(t)
	sink := NewRedisSink(client, "lodging:notifications", zap.NewNop())

	ctx := context.Background()
	id, err := sink.publish(ctx, LevelInfo, "Check-in", "room 101 occupied")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	msgs, err := client.XRange(ctx, "lodging:notifications", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "info", msgs[0].Values["level"])
	assert.Equal(t, "Check-in", msgs[0].Values["title"])
	assert.Equal(t, "room 101 occupied", msgs[0].Values["message"])
}

func TestRedisSink_NotifyIsAsynchronous(t *testing.T) {
	_, client := setupTestRedis(t)
	sink := NewRedisSink(client, "lodging:notifications", zap.NewNop())

	sink.Notify(LevelWarning, "Tolerance", "window expired")

	ctx := context.Background()
	require.Eventually(t, func() bool {
		n, err := client.XLen(ctx, "lodging:notifications").Result()
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRedisSink_NotifySwallowsErrors(t *testing.T) {
	mr, client := setupTestRedis(t)
	sink := NewRedisSink(client, "lodging:notifications", zap.NewNop())
	mr.Close()

	assert.NotPanics(t, func() {
		sink.Notify(LevelError, "Checkout", "redis is down")
	})
}

type recordingSink struct{ titles []string }

func (r *recordingSink) Notify(_ Level, title, _ string) { r.titles = append(r.titles, title) }

func TestMulti_FansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	Multi{a, b, Nop{}, NewLogSink(zap.NewNop())}.Notify(LevelInfo, "Checkout", "done")

	assert.Equal(t, []string{"Checkout"}, a.titles)
	assert.Equal(t, []string{"Checkout"}, b.titles)
}
