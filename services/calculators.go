package services

import (
	"time"

	"github.com/shopspring/decimal"

	"motel-backend/models"
)

type RefundType string

const (
	RefundFull    RefundType = "full"
	RefundPartial RefundType = "partial"
	RefundNone    RefundType = "none"
)

func (t RefundType) Valid() bool {
	return t == RefundFull || t == RefundPartial || t == RefundNone
}

// ComputeRefund returns how much goes back to the guest on cancellation.
func ComputeRefund(totalPaid decimal.Decimal, refundType RefundType, customAmount decimal.Decimal) decimal.Decimal {
	switch refundType {
	case RefundFull:
		return totalPaid
	case RefundPartial:
		if customAmount.IsNegative() {
			return decimal.Zero
		}
		return decimal.Min(customAmount, totalPaid)
	default:
		return decimal.Zero
	}
}

func ComputePriceDifference(currentBase, newBase decimal.Decimal) decimal.Decimal {
	return newBase.Sub(currentBase)
}

func ComputeCheckoutTime(keepTime bool, currentExpected, now time.Time, newRoomType models.RoomType) time.Time {
	if keepTime {
		return currentExpected
	}
	return ExpectedCheckout(now, newRoomType)
}
