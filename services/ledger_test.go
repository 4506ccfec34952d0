package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"motel-backend/models"
)

func TestLedger_ChargesAndPayments(t *testing.T) {
	order := NewSalesOrder(dec("300"))
	assert.Equal(t, models.OrderOpen, order.Status)
	assert.True(t, order.RemainingAmount.Equal(dec("300")))

	AddCharge(order, dec("80"))
	RecordPayment(order, dec("100"))
	AddCharge(order, dec("-30"))
	RecordPayment(order, dec("-20"))

	assert.True(t, order.Subtotal.Equal(dec("350")))
	assert.True(t, order.Total.Equal(dec("350")))
	assert.True(t, order.PaidAmount.Equal(dec("80")))
	assert.True(t, RemainingOf(order).Equal(dec("270")))
	assert.NoError(t, VerifyOrder(order))

	SetOrderStatus(order, models.OrderEnded)
	assert.Equal(t, models.OrderEnded, order.Status)
}

func TestVerifyOrder_DetectsImbalance(t *testing.T) {
	order := NewSalesOrder(dec("100"))
	order.RemainingAmount = dec("90")

	err := VerifyOrder(order)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, KindPersistence, KindOf(err))
}
