package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motel-backend/models"
	"motel-backend/store"
)

func TestAllocate_SplitSumsToTotal(t *testing.T) {
	a := NewPaymentAllocator(sequentialReferences())
	cases := [][]PaymentEntry{
		{cash("300")},
		{cash("100.25"), {Amount: dec("199.75"), Method: models.MethodTarjeta, Terminal: "T1"}},
		{cash("0.01"), {Amount: dec("0.99"), Method: models.MethodTransferencia}, cash("299")},
	}
	for _, entries := range cases {
		alloc, err := a.Allocate(dec("300"), entries, models.PaymentConceptCheckIn)
		require.NoError(t, err)

		sum := decimal.Zero
		for _, sub := range alloc.Subs {
			sum = sum.Add(sub.Amount)
			assert.Equal(t, models.PaymentCompleto, sub.PaymentType)
		}
		assert.True(t, sum.Equal(dec("300")), "sum %s", sum)
		assert.True(t, alloc.Main.Amount.Equal(dec("300")))
		assert.Equal(t, models.MethodPendiente, alloc.Main.Method)
		assert.True(t, alloc.Remaining.IsZero())
		assert.True(t, alloc.Change.IsZero())
		assert.Len(t, alloc.Subs, len(entries))
	}
}

func TestAllocate_ReferencesAreUnique(t *testing.T) {
	a := NewPaymentAllocator(nil)
	alloc, err := a.Allocate(dec("100"), []PaymentEntry{cash("50"), cash("50")}, models.PaymentConceptCheckIn)
	require.NoError(t, err)

	seen := map[string]bool{alloc.Main.Reference: true}
	for _, sub := range alloc.Subs {
		assert.False(t, seen[sub.Reference])
		seen[sub.Reference] = true
	}
	assert.Len(t, seen, 3)
}

func TestAllocate_PartialAndEmpty(t *testing.T) {
	a := NewPaymentAllocator(sequentialReferences())

	alloc, err := a.Allocate(dec("300"), []PaymentEntry{cash("120")}, models.PaymentConceptCheckIn)
	require.NoError(t, err)
	assert.True(t, alloc.Remaining.Equal(dec("180")))
	assert.Equal(t, models.PaymentParcial, alloc.Main.PaymentType)

	alloc, err = a.Allocate(dec("300"), nil, models.PaymentConceptCheckIn)
	require.NoError(t, err)
	assert.True(t, alloc.Empty())
	assert.True(t, alloc.Remaining.Equal(dec("300")))

	alloc, err = a.Allocate(dec("300"), []PaymentEntry{cash("0")}, models.PaymentConceptCheckIn)
	require.NoError(t, err)
	assert.True(t, alloc.Empty())
}

func TestAllocate_ChangeComesOutOfCash(t *testing.T) {
	a := NewPaymentAllocator(sequentialReferences())
	alloc, err := a.Allocate(dec("250"), []PaymentEntry{
		cash("100"),
		{Amount: dec("100"), Method: models.MethodTarjeta, Terminal: "T1"},
		cash("100"),
	}, models.PaymentConceptCheckIn)
	require.NoError(t, err)

	assert.True(t, alloc.TotalPaid.Equal(dec("300")))
	assert.True(t, alloc.Remaining.Equal(dec("-50")))
	assert.True(t, alloc.Change.Equal(dec("50")))
	assert.True(t, alloc.Applied.Equal(dec("250")))
	require.Len(t, alloc.Subs, 3)
	assert.True(t, alloc.Subs[2].Amount.Equal(dec("50")))

	_, err = a.Allocate(dec("250"), []PaymentEntry{{Amount: dec("300"), Method: models.MethodTransferencia}}, models.PaymentConceptCheckIn)
	assert.ErrorIs(t, err, ErrOverpaymentNotAllowed)
}

func TestAllocate_RejectsBadEntries(t *testing.T) {
	a := NewPaymentAllocator(sequentialReferences())
	bad := []PaymentEntry{
		{Amount: dec("-1"), Method: models.MethodEfectivo},
		{Amount: dec("10.001"), Method: models.MethodEfectivo},
		{Amount: dec("10"), Method: models.MethodPendiente},
		{Amount: dec("10"), Method: "BITCOIN"},
		{Amount: dec("10"), Method: models.MethodTarjeta},
		{Amount: dec("10"), Method: models.MethodEfectivo, Terminal: "T1"},
	}
	for _, e := range bad {
		_, err := a.Allocate(dec("10"), []PaymentEntry{e}, models.PaymentConceptCheckIn)
		assert.ErrorIs(t, err, ErrInvalidPayment, "%+v", e)
	}
}

func TestPersist_LinksSubsToMain(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := NewPaymentAllocator(sequentialReferences())

	alloc, err := a.Allocate(dec("100"), []PaymentEntry{cash("40"), {Amount: dec("60"), Method: models.MethodTarjeta, Terminal: "T9"}}, models.PaymentConceptExtras)
	require.NoError(t, err)
	require.NoError(t, a.Persist(ctx, st, 77, alloc))

	payments, err := st.ListPayments(ctx, 77)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	for _, p := range payments[1:] {
		require.NotNil(t, p.ParentPaymentID)
		assert.Equal(t, payments[0].ID, *p.ParentPaymentID)
	}
}

func TestPersist_RollsBackMainWhenSubsFail(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := NewPaymentAllocator(func() string { return "PAY-FIXED" })

	alloc, err := a.Allocate(dec("100"), []PaymentEntry{cash("100")}, models.PaymentConceptExtras)
	require.NoError(t, err)

	err = a.Persist(ctx, st, 5, alloc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))

	payments, err := st.ListPayments(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, payments)
}
