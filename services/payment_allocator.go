package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"motel-backend/models"
	"motel-backend/store"
)

// PaymentEntry is one instrument of a multi-payment.
type PaymentEntry struct {
	Amount   decimal.Decimal      `json:"amount"`
	Method   models.PaymentMethod `json:"method"`
	Terminal string               `json:"terminal,omitempty"`
}

// Allocation is the split of a charge across instruments, ready to persist.
// Main aggregates Subs; Subs sum exactly to Applied.
type Allocation struct {
	Main      models.Payment
	Subs      []models.Payment
	TotalPaid decimal.Decimal // what was tendered
	Applied   decimal.Decimal // what is recorded against the order
	Remaining decimal.Decimal // total - TotalPaid, negative when change is due
	Change    decimal.Decimal
}

func (a *Allocation) Empty() bool { return len(a.Subs) == 0 }

type PaymentAllocator struct {
	newReference func() string
}

// NewPaymentAllocator builds an allocator; a nil reference generator falls
// back to UUID-based references.
func NewPaymentAllocator(newReference func() string) *PaymentAllocator {
	if newReference == nil {
		newReference = func() string {
			return "PAY-" + strings.ToUpper(uuid.NewString())
		}
	}
	return &PaymentAllocator{newReference: newReference}
}

func (a *PaymentAllocator) Reference() string { return a.newReference() }

func validateEntry(i int, e PaymentEntry) error {
	switch {
	case e.Amount.IsNegative():
		return ErrInvalidPayment.With("entry %d: amount must not be negative", i)
	case !hasCents(e.Amount):
		return ErrInvalidPayment.With("entry %d: amount has more than two decimals", i)
	case !e.Method.Valid() || e.Method == models.MethodPendiente:
		return ErrInvalidPayment.With("entry %d: unsupported payment method %q", i, e.Method)
	case e.Method == models.MethodTarjeta && strings.TrimSpace(e.Terminal) == "":
		return ErrInvalidPayment.With("entry %d: card payments require a terminal", i)
	case e.Method != models.MethodTarjeta && strings.TrimSpace(e.Terminal) != "":
		return ErrInvalidPayment.With("entry %d: terminal is only allowed for card payments", i)
	}
	return nil
}

// Allocate validates entries against total and splits them into one main
// payment plus one sub-payment per non-zero entry. Change can only be given
// back from cash; it is taken off the cash entries, last first.
func (a *PaymentAllocator) Allocate(total decimal.Decimal, entries []PaymentEntry, concept string) (*Allocation, error) {
	totalPaid := decimal.Zero
	for i, e := range entries {
		if err := validateEntry(i, e); err != nil {
			return nil, err
		}
		totalPaid = totalPaid.Add(e.Amount)
	}

	alloc := &Allocation{
		TotalPaid: totalPaid,
		Remaining: total.Sub(totalPaid),
		Change:    decimal.Zero,
	}

	applied := make([]decimal.Decimal, len(entries))
	for i, e := range entries {
		applied[i] = e.Amount
	}
	if alloc.Remaining.IsNegative() {
		alloc.Change = alloc.Remaining.Neg()
		left := alloc.Change
		for i := len(entries) - 1; i >= 0 && left.IsPositive(); i-- {
			if entries[i].Method != models.MethodEfectivo {
				continue
			}
			take := decimal.Min(left, applied[i])
			applied[i] = applied[i].Sub(take)
			left = left.Sub(take)
		}
		if left.IsPositive() {
			return nil, ErrOverpaymentNotAllowed.With("non-cash payments exceed the amount due by %s", left.StringFixed(2))
		}
	}

	alloc.Applied = totalPaid.Sub(alloc.Change)
	if alloc.Applied.IsZero() {
		return alloc, nil
	}

	payType := models.PaymentParcial
	if alloc.Applied.Equal(total) {
		payType = models.PaymentCompleto
	}

	alloc.Main = models.Payment{
		Amount:      alloc.Applied,
		Method:      models.MethodPendiente,
		Concept:     concept,
		Status:      models.PaymentPagado,
		PaymentType: payType,
		Reference:   a.newReference(),
	}
	for i, e := range entries {
		if applied[i].IsZero() {
			continue
		}
		alloc.Subs = append(alloc.Subs, models.Payment{
			Amount:      applied[i],
			Method:      e.Method,
			Terminal:    strings.TrimSpace(e.Terminal),
			Concept:     concept,
			Status:      models.PaymentPagado,
			PaymentType: payType,
			Reference:   a.newReference(),
		})
	}
	return alloc, nil
}

// Persist writes the main payment and its sub-payments as one unit. When
// st is already a transaction the rows join it.
func (a *PaymentAllocator) Persist(ctx context.Context, st store.Store, orderID uint, alloc *Allocation) error {
	if alloc.Empty() {
		return nil
	}
	return st.Transaction(ctx, func(tx store.Store) error {
		alloc.Main.SalesOrderID = orderID
		if err := tx.CreatePayment(ctx, &alloc.Main); err != nil {
			return fromStore(err, nil)
		}
		parentID := alloc.Main.ID
		for i := range alloc.Subs {
			alloc.Subs[i].SalesOrderID = orderID
			alloc.Subs[i].ParentPaymentID = &parentID
		}
		if err := tx.CreatePayments(ctx, alloc.Subs); err != nil {
			return fromStore(err, nil)
		}
		return nil
	})
}
