package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"motel-backend/models"
)

func TestComputeRefund(t *testing.T) {
	paid := dec("150")
	tests := []struct {
		typ    RefundType
		custom string
		want   string
	}{
		{RefundFull, "0", "150"},
		{RefundFull, "999", "150"},
		{RefundPartial, "60", "60"},
		{RefundPartial, "200", "150"},
		{RefundPartial, "-5", "0"},
		{RefundNone, "100", "0"},
	}
	for _, tt := range tests {
		got := ComputeRefund(paid, tt.typ, dec(tt.custom))
		assert.True(t, got.Equal(dec(tt.want)), "%s/%s: got %s", tt.typ, tt.custom, got)
	}

	assert.True(t, RefundPartial.Valid())
	assert.False(t, RefundType("half").Valid())
}

func TestComputePriceDifference(t *testing.T) {
	assert.True(t, ComputePriceDifference(dec("250"), dec("400")).Equal(dec("150")))
	assert.True(t, ComputePriceDifference(dec("400"), dec("250")).Equal(dec("-150")))
	assert.True(t, ComputePriceDifference(dec("250"), dec("250")).Equal(decimal.Zero))
}

func TestComputeCheckoutTime(t *testing.T) {
	rt := models.RoomType{WeekdayHours: 5, WeekendHours: 7}
	current := tuesdayMorning.Add(4 * time.Hour)
	now := tuesdayMorning.Add(90 * time.Minute)

	assert.Equal(t, current, ComputeCheckoutTime(true, current, now, rt))
	assert.Equal(t, now.Add(5*time.Hour), ComputeCheckoutTime(false, current, now, rt))
}
