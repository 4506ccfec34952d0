package services

import (
	"github.com/shopspring/decimal"

	"motel-backend/models"
)

// The sales order ledger is additive: charges grow subtotal and remaining,
// payments grow paid and shrink remaining. Callers compose these inside one
// transaction and VerifyOrder runs before the order is written back.

func NewSalesOrder(subtotal decimal.Decimal) *models.SalesOrder {
	return &models.SalesOrder{
		Subtotal:        subtotal,
		Tax:             decimal.Zero,
		Total:           subtotal,
		PaidAmount:      decimal.Zero,
		RemainingAmount: subtotal,
		Status:          models.OrderOpen,
	}
}

func AddCharge(order *models.SalesOrder, amount decimal.Decimal) {
	order.Subtotal = order.Subtotal.Add(amount)
	order.Total = order.Subtotal.Add(order.Tax)
	order.RemainingAmount = order.RemainingAmount.Add(amount)
}

func RecordPayment(order *models.SalesOrder, amount decimal.Decimal) {
	order.PaidAmount = order.PaidAmount.Add(amount)
	order.RemainingAmount = order.RemainingAmount.Sub(amount)
}

func SetOrderStatus(order *models.SalesOrder, status models.OrderStatus) {
	order.Status = status
}

func RemainingOf(order *models.SalesOrder) decimal.Decimal {
	return order.RemainingAmount
}

// VerifyOrder checks total == subtotal+tax and remaining == total-paid.
func VerifyOrder(order *models.SalesOrder) error {
	if !order.Total.Equal(order.Subtotal.Add(order.Tax)) ||
		!order.RemainingAmount.Equal(order.Total.Sub(order.PaidAmount)) {
		return ErrPersistence.With("ledger out of balance on order %d: total=%s paid=%s remaining=%s",
			order.ID, order.Total, order.PaidAmount, order.RemainingAmount)
	}
	return nil
}

// hasCents reports whether d is expressible in whole cents, the scale of
// every decimal(12,2) column.
func hasCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
