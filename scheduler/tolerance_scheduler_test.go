package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"motel-backend/models"
	"motel-backend/notify"
	"motel-backend/services"
	"motel-backend/store"
)

func TestSweep_ChargesExpiredWindowsOnce(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	clock := services.NewManualClock(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	log := zap.NewNop()
	rooms := services.NewRoomService(st, log, notify.Nop{})
	stays := services.NewStayService(st, rooms, services.NewPaymentAllocator(nil), clock, log, notify.Nop{})

	rt := models.RoomType{Name: "Sencilla", BasePrice: decimal.NewFromInt(200), WeekdayHours: 4, WeekendHours: 4, MaxPeople: 2, ExtraPersonPrice: decimal.NewFromInt(40), ExtraHourPrice: decimal.NewFromInt(60)}
	require.NoError(t, services.NewRoomTypeService(st).Create(ctx, &rt))

	var ids []uint
	for _, number := range []string{"1", "2", "3"} {
		room := models.Room{RoomNumber: number, RoomTypeID: rt.ID}
		require.NoError(t, rooms.Create(ctx, &room))
		res, err := stays.QuickCheckIn(ctx, services.StartStayInput{RoomID: room.ID, InitialPeople: 1})
		require.NoError(t, err)
		ids = append(ids, res.Stay.ID)
	}

	_, err := stays.StartTolerance(ctx, ids[0], models.TolerancePersonLeft)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	_, err = stays.StartTolerance(ctx, ids[1], models.ToleranceRoomEmpty)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)

	sweeper := NewToleranceScheduler(stays, time.Minute, log)
	assert.Equal(t, 1, sweeper.Sweep(ctx))
	assert.Equal(t, 0, sweeper.Sweep(ctx))

	clock.Advance(30 * time.Minute)
	assert.Equal(t, 1, sweeper.Sweep(ctx))

	for i, want := range []int64{260, 260, 200} {
		details, err := stays.GetStayDetails(ctx, ids[i])
		require.NoError(t, err)
		assert.True(t, details.Order.Subtotal.Equal(decimal.NewFromInt(want)), "stay %d subtotal %s", ids[i], details.Order.Subtotal)
	}
}

type fakeCharger struct {
	mu      sync.Mutex
	stays   []models.RoomStay
	listErr error
	failOn  uint
	calls   []uint
}

func (f *fakeCharger) ExpiredToleranceStays(context.Context) ([]models.RoomStay, error) {
	return f.stays, f.listErr
}

func (f *fakeCharger) ChargeToleranceExpired(_ context.Context, id uint) (*services.StayResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	if id == f.failOn {
		return nil, services.ErrStayNotActive
	}
	return &services.StayResult{Charged: true}, nil
}

func (f *fakeCharger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestSweep_ContinuesPastFailures(t *testing.T) {
	fake := &fakeCharger{stays: []models.RoomStay{{ID: 1}, {ID: 2}, {ID: 3}}, failOn: 2}
	sweeper := NewToleranceScheduler(fake, time.Minute, zap.NewNop())

	assert.Equal(t, 2, sweeper.Sweep(context.Background()))
	assert.Equal(t, []uint{1, 2, 3}, fake.calls)

	fake.listErr = errors.New("db down")
	assert.Equal(t, 0, sweeper.Sweep(context.Background()))
}

func TestStart_StopsWithContext(t *testing.T) {
	fake := &fakeCharger{stays: []models.RoomStay{{ID: 7}}}
	sweeper := NewToleranceScheduler(fake, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return fake.callCount() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
