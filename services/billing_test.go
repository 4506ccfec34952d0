package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motel-backend/models"
)

func TestHoursForDay(t *testing.T) {
	rt := models.RoomType{WeekdayHours: 4, WeekendHours: 8}
	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"tuesday", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), 4},
		{"friday night", time.Date(2026, 3, 13, 23, 59, 0, 0, time.UTC), 4},
		{"saturday", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), 8},
		{"sunday", time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC), 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HoursForDay(tt.at, rt))
		})
	}

	assert.Equal(t, DefaultStayHours, HoursForDay(tuesdayMorning, models.RoomType{}))
}

func TestCheckInCharge(t *testing.T) {
	rt := models.RoomType{BasePrice: dec("250"), ExtraPersonPrice: dec("50")}
	assert.True(t, CheckInCharge(rt, 1).Equal(dec("250")))
	assert.True(t, CheckInCharge(rt, 2).Equal(dec("250")))
	assert.True(t, CheckInCharge(rt, 3).Equal(dec("300")))
	assert.True(t, CheckInCharge(rt, 4).Equal(dec("350")))

	items := CheckInItems(7, rt, 4)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[1].Qty)
	total := decimal.Zero
	for _, it := range items {
		assert.Equal(t, uint(7), it.SalesOrderID)
		total = total.Add(it.Amount())
	}
	assert.True(t, total.Equal(CheckInCharge(rt, 4)))

	assert.Len(t, CheckInItems(7, rt, 2), 1)
}

func TestToleranceExpiredItem(t *testing.T) {
	rt := models.RoomType{ExtraHourPrice: dec("80")}
	start := tuesdayMorning

	item := ToleranceExpiredItem(3, 9, rt, start)
	assert.Equal(t, models.ConceptExtraHour, item.ConceptType)
	assert.Equal(t, models.ConceptLabelToleranceExpired, item.Concept)
	require.NotNil(t, item.DedupKey)
	assert.Equal(t, ToleranceDedupKey(9, start), *item.DedupKey)
	assert.NotEqual(t, *item.DedupKey, ToleranceDedupKey(9, start.Add(time.Nanosecond)))
	assert.True(t, item.Amount().Equal(dec("80")))
}

func TestIsToleranceExpired(t *testing.T) {
	stay := models.RoomStay{}
	assert.False(t, IsToleranceExpired(stay, tuesdayMorning))

	start := tuesdayMorning
	stay.ToleranceStartedAt = &start
	assert.False(t, IsToleranceExpired(stay, start.Add(59*time.Minute+59*time.Second)))
	assert.True(t, IsToleranceExpired(stay, start.Add(time.Hour)))
	assert.True(t, IsToleranceExpired(stay, start.Add(3*time.Hour)))
}
