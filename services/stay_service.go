// services/stay_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"motel-backend/models"
	"motel-backend/notify"
	"motel-backend/store"
)

// ---------------------------
// Inputs / results
// ---------------------------

type StartStayInput struct {
	RoomID        uint               `json:"roomId" binding:"required"`
	InitialPeople int                `json:"initialPeople" binding:"required"`
	Vehicle       models.VehicleInfo `json:"vehicle"`
	ValetRef      string             `json:"valetRef,omitempty"`
	// EntryTime defaults to the clock's current time.
	EntryTime *time.Time     `json:"entryTime,omitempty"`
	Payments  []PaymentEntry `json:"payments"`
}

type PayExtrasInput struct {
	ConceptType models.ConceptType   `json:"conceptType" binding:"required"`
	Amount      decimal.Decimal      `json:"amount"`
	Method      models.PaymentMethod `json:"method" binding:"required"`
	Terminal    string               `json:"terminal,omitempty"`
}

type CheckoutInput struct {
	AmountToPay decimal.Decimal      `json:"amountToPay"`
	Method      models.PaymentMethod `json:"method"`
	Terminal    string               `json:"terminal,omitempty"`
	// Tendered is the cash handed over; anything above AmountToPay is change.
	Tendered decimal.Decimal `json:"tendered"`
}

type CancelInput struct {
	RefundType   RefundType           `json:"refundType" binding:"required"`
	RefundAmount decimal.Decimal      `json:"refundAmount"`
	Reason       string               `json:"reason"`
	RefundMethod models.PaymentMethod `json:"refundMethod,omitempty"`
}

type ChangeRoomInput struct {
	NewRoomID uint   `json:"newRoomId" binding:"required"`
	KeepTime  bool   `json:"keepTime"`
	Reason    string `json:"reason"`
}

type StayResult struct {
	Stay  models.RoomStay   `json:"stay"`
	Order models.SalesOrder `json:"order"`
	// Change is cash to hand back; it is never recorded on the order.
	Change decimal.Decimal `json:"change"`
	// Charged is false when a tolerance charge was already billed.
	Charged         bool            `json:"charged"`
	Refund          decimal.Decimal `json:"refund"`
	PriceDifference decimal.Decimal `json:"priceDifference"`
}

type StayDetails struct {
	Stay             models.RoomStay         `json:"stay"`
	Room             models.Room             `json:"room"`
	Order            models.SalesOrder       `json:"order"`
	Items            []models.SalesOrderItem `json:"items"`
	Payments         []models.Payment        `json:"payments"`
	RoomChanges      []models.RoomChange     `json:"roomChanges"`
	ToleranceExpired bool                    `json:"toleranceExpired"`
	PendingPayment   bool                    `json:"pendingPayment"`
}

// ---------------------------
// Service
// ---------------------------

// StayService is the stay lifecycle: check-in, extras, tolerance windows,
// checkout, cancellation and room changes. Every operation is one store
// transaction; the room, stay and order rows are only written from here.
type StayService struct {
	Store    store.Store
	rooms    *RoomService
	payments *PaymentAllocator
	clock    Clock
	log      *zap.Logger
	notify   notify.Sink
}

func NewStayService(st store.Store, rooms *RoomService, payments *PaymentAllocator, clock Clock, log *zap.Logger, sink notify.Sink) *StayService {
	return &StayService{
		Store:    st,
		rooms:    rooms,
		payments: payments,
		clock:    clock,
		log:      log.Named("stays"),
		notify:   sink,
	}
}

type stayScope struct {
	stay     *models.RoomStay
	order    *models.SalesOrder
	room     *models.Room
	roomType *models.RoomType
	now      time.Time
}

func (s *StayService) loadScope(ctx context.Context, tx store.Store, stayID uint) (*stayScope, error) {
	stay, err := tx.GetStay(ctx, stayID)
	if err != nil {
		return nil, fromStore(err, ErrStayNotFound)
	}
	order, err := tx.GetOrder(ctx, stay.SalesOrderID)
	if err != nil {
		return nil, fromStore(err, ErrOrderNotFound)
	}
	room, err := tx.GetRoom(ctx, stay.RoomID)
	if err != nil {
		return nil, fromStore(err, ErrRoomNotFound)
	}
	rt, err := tx.GetRoomType(ctx, room.RoomTypeID)
	if err != nil {
		return nil, fromStore(err, ErrRoomTypeNotFound)
	}
	return &stayScope{stay: stay, order: order, room: room, roomType: rt, now: s.clock.Now()}, nil
}

// withActiveStay loads an ACTIVA stay, runs fn and writes stay and order back,
// all in one transaction.
func (s *StayService) withActiveStay(ctx context.Context, stayID uint, fn func(tx store.Store, sc *stayScope) error) (*StayResult, error) {
	var res *StayResult
	err := s.Store.Transaction(ctx, func(tx store.Store) error {
		sc, err := s.loadScope(ctx, tx, stayID)
		if err != nil {
			return err
		}
		if sc.stay.Status.Terminal() {
			return ErrStayNotActive.With("stay %d is %s", stayID, sc.stay.Status)
		}
		if err := fn(tx, sc); err != nil {
			return err
		}
		if err := VerifyOrder(sc.order); err != nil {
			return err
		}
		if err := tx.SaveOrder(ctx, sc.order); err != nil {
			return fromStore(err, ErrOrderNotFound)
		}
		if err := tx.SaveStay(ctx, sc.stay); err != nil {
			return fromStore(err, ErrStayNotFound)
		}
		res = &StayResult{Stay: *sc.stay, Order: *sc.order}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *StayService) addItem(ctx context.Context, tx store.Store, order *models.SalesOrder, item models.SalesOrderItem) error {
	if err := tx.CreateItem(ctx, &item); err != nil {
		return fromStore(err, nil)
	}
	AddCharge(order, item.Amount())
	return nil
}

// itemMethod is the method stamped on items settled by alloc; split payments
// are stamped with the PENDIENTE placeholder of the aggregate row.
func itemMethod(alloc *Allocation) models.PaymentMethod {
	method := models.MethodPendiente
	for i, sub := range alloc.Subs {
		if i == 0 {
			method = sub.Method
		} else if sub.Method != method {
			return models.MethodPendiente
		}
	}
	return method
}

func setPaymentType(alloc *Allocation, t models.PaymentType) {
	alloc.Main.PaymentType = t
	for i := range alloc.Subs {
		alloc.Subs[i].PaymentType = t
	}
}

// ---------------------------
// Check-in
// ---------------------------

// StartStay checks guests into a free room. Room booking, order creation,
// payments and the LIBRE -> OCUPADA write commit together or not at all.
func (s *StayService) StartStay(ctx context.Context, in StartStayInput) (*StayResult, error) {
	now := s.clock.Now()
	entry := now
	if in.EntryTime != nil {
		entry = *in.EntryTime
	}

	var res *StayResult
	var roomNumber string
	err := s.Store.Transaction(ctx, func(tx store.Store) error {
		room, err := tx.GetRoom(ctx, in.RoomID)
		if err != nil {
			return fromStore(err, ErrRoomNotFound)
		}
		if room.Status != models.RoomLibre {
			return ErrRoomNotAvailable.With("room %s is %s", room.RoomNumber, room.Status)
		}
		rt, err := tx.GetRoomType(ctx, room.RoomTypeID)
		if err != nil {
			return fromStore(err, ErrRoomTypeNotFound)
		}
		if in.InitialPeople < 1 || in.InitialPeople > rt.MaxPeople {
			return ErrInvalidPeopleCount.With("%d people, room type %s allows 1 to %d", in.InitialPeople, rt.Name, rt.MaxPeople)
		}

		total := CheckInCharge(*rt, in.InitialPeople)
		alloc, err := s.payments.Allocate(total, in.Payments, models.PaymentConceptCheckIn)
		if err != nil {
			return err
		}

		order := NewSalesOrder(decimal.Zero)
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fromStore(err, nil)
		}
		for _, item := range CheckInItems(order.ID, *rt, in.InitialPeople) {
			if err := s.addItem(ctx, tx, order, item); err != nil {
				return err
			}
		}

		if err := s.payments.Persist(ctx, tx, order.ID, alloc); err != nil {
			return err
		}
		RecordPayment(order, alloc.Applied)
		if !alloc.Empty() && !RemainingOf(order).IsPositive() {
			if _, err := tx.MarkItemsPaid(ctx, order.ID, nil, now, itemMethod(alloc)); err != nil {
				return fromStore(err, nil)
			}
		}
		if err := VerifyOrder(order); err != nil {
			return err
		}
		if err := tx.SaveOrder(ctx, order); err != nil {
			return fromStore(err, ErrOrderNotFound)
		}

		stay := &models.RoomStay{
			RoomID:             room.ID,
			SalesOrderID:       order.ID,
			Status:             models.StayActiva,
			CheckInAt:          entry,
			ExpectedCheckOutAt: ExpectedCheckout(entry, *rt),
			CurrentPeople:      in.InitialPeople,
			TotalPeople:        in.InitialPeople,
			Vehicle:            datatypes.NewJSONType(in.Vehicle),
			ValetRef:           strings.TrimSpace(in.ValetRef),
			RefundAmount:       decimal.Zero,
		}
		if err := tx.CreateStay(ctx, stay); err != nil {
			return fromStore(err, nil)
		}

		if err := s.rooms.Transition(ctx, tx, room, models.RoomOcupada); err != nil {
			return err
		}

		roomNumber = room.RoomNumber
		res = &StayResult{Stay: *stay, Order: *order, Change: alloc.Change}
		return nil
	})
	if err != nil {
		s.log.Warn("check-in failed", zap.Uint("room_id", in.RoomID), zap.String("code", CodeOf(err)), zap.Error(err))
		return nil, err
	}

	s.log.Info("stay started",
		zap.Uint("stay_id", res.Stay.ID),
		zap.Uint("room_id", res.Stay.RoomID),
		zap.Int("people", res.Stay.CurrentPeople),
		zap.String("total", res.Order.Total.StringFixed(2)),
		zap.String("remaining", res.Order.RemainingAmount.StringFixed(2)))
	msg := fmt.Sprintf("Room %s occupied until %s", roomNumber, res.Stay.ExpectedCheckOutAt.Format("15:04"))
	if res.Order.RemainingAmount.IsPositive() {
		msg += fmt.Sprintf(", pending payment %s", res.Order.RemainingAmount.StringFixed(2))
	}
	s.notify.Notify(notify.LevelInfo, "Check-in", msg)
	return res, nil
}

// QuickCheckIn is StartStay without collecting payment; the whole total is
// left in remaining_amount.
func (s *StayService) QuickCheckIn(ctx context.Context, in StartStayInput) (*StayResult, error) {
	in.Payments = nil
	return s.StartStay(ctx, in)
}

// ---------------------------
// Extras
// ---------------------------

func (s *StayService) AddExtraPerson(ctx context.Context, stayID uint) (*StayResult, error) {
	res, err := s.withActiveStay(ctx, stayID, func(tx store.Store, sc *stayScope) error {
		if sc.stay.CurrentPeople >= sc.roomType.MaxPeople {
			return ErrMaxPeopleExceeded.With("room type %s allows %d people", sc.roomType.Name, sc.roomType.MaxPeople)
		}
		sc.stay.CurrentPeople++
		sc.stay.TotalPeople++
		return s.addItem(ctx, tx, sc.order, ExtraPersonItem(sc.order.ID, *sc.roomType))
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("extra person added", zap.Uint("stay_id", stayID), zap.Int("people", res.Stay.CurrentPeople))
	return res, nil
}

func (s *StayService) AddExtraHour(ctx context.Context, stayID uint) (*StayResult, error) {
	res, err := s.withActiveStay(ctx, stayID, func(tx store.Store, sc *stayScope) error {
		sc.stay.ExpectedCheckOutAt = sc.stay.ExpectedCheckOutAt.Add(time.Hour)
		return s.addItem(ctx, tx, sc.order, ExtraHourItem(sc.order.ID, *sc.roomType))
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("extra hour added", zap.Uint("stay_id", stayID), zap.Time("expected_check_out_at", res.Stay.ExpectedCheckOutAt))
	return res, nil
}

// ---------------------------
// Tolerance
// ---------------------------

func (s *StayService) StartTolerance(ctx context.Context, stayID uint, toleranceType models.ToleranceType) (*StayResult, error) {
	if !toleranceType.Valid() {
		return nil, ErrInvalidToleranceType
	}
	res, err := s.withActiveStay(ctx, stayID, func(_ store.Store, sc *stayScope) error {
		if sc.roomType.IsHotel {
			return ErrToleranceNotApplicable.With("room type %s is a hotel type", sc.roomType.Name)
		}
		if sc.stay.ToleranceStartedAt != nil {
			return ErrToleranceAlreadyStarted
		}
		now := sc.now
		sc.stay.ToleranceStartedAt = &now
		sc.stay.ToleranceType = toleranceType
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("tolerance started", zap.Uint("stay_id", stayID), zap.String("type", string(toleranceType)))
	return res, nil
}

// EndTolerance closes the open window (the guest came back). No charge.
func (s *StayService) EndTolerance(ctx context.Context, stayID uint) (*StayResult, error) {
	return s.withActiveStay(ctx, stayID, func(_ store.Store, sc *stayScope) error {
		sc.stay.ToleranceStartedAt = nil
		sc.stay.ToleranceType = ""
		return nil
	})
}

// ChargeToleranceExpired bills an expired window once. Repeated calls for the
// same window return Charged=false and change nothing.
func (s *StayService) ChargeToleranceExpired(ctx context.Context, stayID uint) (*StayResult, error) {
	charged := false
	res, err := s.withActiveStay(ctx, stayID, func(tx store.Store, sc *stayScope) error {
		if !IsToleranceExpired(*sc.stay, sc.now) {
			return ErrToleranceNotExpired
		}
		start := *sc.stay.ToleranceStartedAt
		exists, err := tx.ItemExistsByDedupKey(ctx, ToleranceDedupKey(sc.stay.ID, start))
		if err != nil {
			return fromStore(err, nil)
		}
		if exists {
			return nil
		}
		err = s.addItem(ctx, tx, sc.order, ToleranceExpiredItem(sc.order.ID, sc.stay.ID, *sc.roomType, start))
		if errors.Is(err, ErrDuplicate) {
			return nil
		}
		if err != nil {
			return err
		}
		charged = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Charged = charged
	if charged {
		s.log.Info("tolerance expired charged", zap.Uint("stay_id", stayID), zap.Time("window_start", *res.Stay.ToleranceStartedAt))
		s.notify.Notify(notify.LevelWarning, "Tolerance expired", fmt.Sprintf("Stay %d charged one extra hour", stayID))
	}
	return res, nil
}

// ---------------------------
// Payments
// ---------------------------

// PayExtras records a payment against one concept type and then marks every
// unpaid item of that type as paid, whatever the amount. This mirrors the
// front desk's current behavior; per-item settlement is not attempted.
func (s *StayService) PayExtras(ctx context.Context, stayID uint, in PayExtrasInput) (*StayResult, error) {
	if !in.ConceptType.Valid() {
		return nil, ErrInvalidPayment.With("unknown concept type %q", in.ConceptType)
	}
	if !in.Amount.IsPositive() || !hasCents(in.Amount) {
		return nil, ErrInvalidAmount
	}
	res, err := s.withActiveStay(ctx, stayID, func(tx store.Store, sc *stayScope) error {
		if in.Amount.GreaterThan(RemainingOf(sc.order)) {
			return ErrOverpaymentNotAllowed.With("amount %s exceeds remaining %s", in.Amount.StringFixed(2), sc.order.RemainingAmount.StringFixed(2))
		}
		alloc, err := s.payments.Allocate(in.Amount, []PaymentEntry{{Amount: in.Amount, Method: in.Method, Terminal: in.Terminal}}, models.PaymentConceptExtras)
		if err != nil {
			return err
		}
		if err := s.payments.Persist(ctx, tx, sc.order.ID, alloc); err != nil {
			return err
		}
		RecordPayment(sc.order, alloc.Applied)
		concept := in.ConceptType
		if _, err := tx.MarkItemsPaid(ctx, sc.order.ID, &concept, sc.now, in.Method); err != nil {
			return fromStore(err, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("extras paid", zap.Uint("stay_id", stayID), zap.String("concept", string(in.ConceptType)), zap.String("amount", in.Amount.StringFixed(2)))
	return res, nil
}

// Checkout takes a payment and, when it settles the order, closes the stay
// and sends the room to cleaning. A short payment leaves the stay ACTIVA.
// An order already in credit (a downgrade after paying) is settled by paying
// the credit back as a refund.
func (s *StayService) Checkout(ctx context.Context, stayID uint, in CheckoutInput) (*StayResult, error) {
	if in.AmountToPay.IsNegative() || !hasCents(in.AmountToPay) {
		return nil, ErrInvalidAmount
	}
	change, refund := decimal.Zero, decimal.Zero
	var roomNumber string
	res, err := s.withActiveStay(ctx, stayID, func(tx store.Store, sc *stayScope) error {
		remaining := RemainingOf(sc.order)
		switch {
		case !remaining.IsPositive() && in.AmountToPay.IsPositive():
			return ErrOverpaymentNotAllowed.With("nothing is owed, remaining %s", remaining.StringFixed(2))
		case remaining.IsPositive() && in.AmountToPay.GreaterThan(remaining):
			return ErrOverpaymentNotAllowed.With("amount %s exceeds remaining %s", in.AmountToPay.StringFixed(2), remaining.StringFixed(2))
		case in.AmountToPay.IsZero() && remaining.IsPositive():
			return ErrInvalidAmount
		}

		method := in.Method
		if in.AmountToPay.IsPositive() {
			tendered := in.Tendered
			if tendered.IsZero() {
				tendered = in.AmountToPay
			}
			if tendered.LessThan(in.AmountToPay) {
				return ErrInvalidPayment.With("tendered %s is less than amount to pay %s", tendered.StringFixed(2), in.AmountToPay.StringFixed(2))
			}
			alloc, err := s.payments.Allocate(in.AmountToPay, []PaymentEntry{{Amount: tendered, Method: in.Method, Terminal: in.Terminal}}, models.PaymentConceptCheckout)
			if err != nil {
				return err
			}
			if remaining.Sub(alloc.Applied).IsPositive() {
				setPaymentType(alloc, models.PaymentParcial)
			} else {
				setPaymentType(alloc, models.PaymentCompleto)
			}
			if err := s.payments.Persist(ctx, tx, sc.order.ID, alloc); err != nil {
				return err
			}
			RecordPayment(sc.order, alloc.Applied)
			change = alloc.Change
		} else if !method.Valid() {
			method = models.MethodPendiente
		}

		left := RemainingOf(sc.order)
		if left.IsPositive() {
			return nil
		}
		if left.IsNegative() {
			refund = left.Neg()
			if err := s.recordRefund(ctx, tx, sc.order, refund, models.MethodEfectivo, models.PaymentCompleto); err != nil {
				return err
			}
		}

		if _, err := tx.MarkItemsPaid(ctx, sc.order.ID, nil, sc.now, method); err != nil {
			return fromStore(err, nil)
		}
		now := sc.now
		sc.stay.Status = models.StayFinalizada
		sc.stay.ActualCheckOutAt = &now
		sc.stay.RefundAmount = refund
		SetOrderStatus(sc.order, models.OrderEnded)
		roomNumber = sc.room.RoomNumber
		return s.rooms.Transition(ctx, tx, sc.room, models.RoomSucia)
	})
	if err != nil {
		return nil, err
	}
	res.Change = change
	res.Refund = refund

	if res.Stay.Status == models.StayFinalizada {
		s.log.Info("stay finalized",
			zap.Uint("stay_id", stayID),
			zap.String("paid", res.Order.PaidAmount.StringFixed(2)),
			zap.String("refund", refund.StringFixed(2)))
		s.notify.Notify(notify.LevelInfo, "Checkout", fmt.Sprintf("Room %s released for cleaning", roomNumber))
	} else {
		s.log.Info("partial payment recorded", zap.Uint("stay_id", stayID), zap.String("remaining", res.Order.RemainingAmount.StringFixed(2)))
	}
	return res, nil
}

// recordRefund writes amount back to the guest as a negative REEMBOLSO
// payment and takes it off the order's paid amount.
func (s *StayService) recordRefund(ctx context.Context, tx store.Store, order *models.SalesOrder, amount decimal.Decimal, method models.PaymentMethod, payType models.PaymentType) error {
	adj := models.Payment{
		SalesOrderID: order.ID,
		Amount:       amount.Neg(),
		Method:       method,
		Concept:      models.PaymentConceptRefund,
		Status:       models.PaymentPagado,
		PaymentType:  payType,
		Reference:    s.payments.Reference(),
	}
	if err := tx.CreatePayment(ctx, &adj); err != nil {
		return fromStore(err, nil)
	}
	RecordPayment(order, amount.Neg())
	return nil
}

// ---------------------------
// Cancellation and room change
// ---------------------------

func (s *StayService) CancelStay(ctx context.Context, stayID uint, in CancelInput) (*StayResult, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, ErrMissingReason
	}
	if !in.RefundType.Valid() {
		return nil, ErrInvalidRefundType
	}
	if !hasCents(in.RefundAmount) {
		return nil, ErrInvalidRefundAmount.With("refund %s has more than two decimals", in.RefundAmount)
	}
	refundMethod := in.RefundMethod
	if refundMethod == "" {
		refundMethod = models.MethodEfectivo
	}
	if !refundMethod.Valid() || refundMethod == models.MethodPendiente {
		return nil, ErrInvalidPayment.With("unsupported refund method %q", refundMethod)
	}

	refund := decimal.Zero
	var roomNumber string
	res, err := s.withActiveStay(ctx, stayID, func(tx store.Store, sc *stayScope) error {
		totalPaid := sc.order.PaidAmount
		if in.RefundAmount.IsNegative() || in.RefundAmount.GreaterThan(totalPaid) {
			return ErrInvalidRefundAmount.With("refund %s outside 0..%s", in.RefundAmount.StringFixed(2), totalPaid.StringFixed(2))
		}
		refund = ComputeRefund(totalPaid, in.RefundType, in.RefundAmount)
		if refund.IsPositive() {
			payType := models.PaymentParcial
			if refund.Equal(totalPaid) {
				payType = models.PaymentCompleto
			}
			if err := s.recordRefund(ctx, tx, sc.order, refund, refundMethod, payType); err != nil {
				return err
			}
		}

		now := sc.now
		sc.stay.Status = models.StayCancelada
		sc.stay.ActualCheckOutAt = &now
		sc.stay.CancellationReason = reason
		sc.stay.RefundAmount = refund
		SetOrderStatus(sc.order, models.OrderCancelled)
		roomNumber = sc.room.RoomNumber
		return s.rooms.Transition(ctx, tx, sc.room, models.RoomSucia)
	})
	if err != nil {
		return nil, err
	}
	res.Refund = refund
	s.log.Info("stay cancelled", zap.Uint("stay_id", stayID), zap.String("refund", refund.StringFixed(2)), zap.String("reason", reason))
	s.notify.Notify(notify.LevelWarning, "Stay cancelled", fmt.Sprintf("Room %s: %s (refund %s)", roomNumber, reason, refund.StringFixed(2)))
	return res, nil
}

// ChangeRoom moves an active stay to a free room. The vacated room goes to
// SUCIA, same as after a checkout.
func (s *StayService) ChangeRoom(ctx context.Context, stayID uint, in ChangeRoomInput) (*StayResult, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, ErrMissingReason
	}
	diff := decimal.Zero
	var from, to string
	res, err := s.withActiveStay(ctx, stayID, func(tx store.Store, sc *stayScope) error {
		if in.NewRoomID == sc.stay.RoomID {
			return ErrRoomNotAvailable.With("stay is already in room %s", sc.room.RoomNumber)
		}
		newRoom, err := tx.GetRoom(ctx, in.NewRoomID)
		if err != nil {
			return fromStore(err, ErrRoomNotFound)
		}
		if newRoom.Status != models.RoomLibre {
			return ErrRoomNotAvailable.With("room %s is %s", newRoom.RoomNumber, newRoom.Status)
		}
		newType, err := tx.GetRoomType(ctx, newRoom.RoomTypeID)
		if err != nil {
			return fromStore(err, ErrRoomTypeNotFound)
		}
		if sc.stay.CurrentPeople > newType.MaxPeople {
			return ErrInvalidPeopleCount.With("%d people do not fit room type %s (max %d)", sc.stay.CurrentPeople, newType.Name, newType.MaxPeople)
		}

		diff = ComputePriceDifference(sc.roomType.BasePrice, newType.BasePrice)
		if !diff.IsZero() {
			if err := s.addItem(ctx, tx, sc.order, RoomChangeItem(sc.order.ID, diff)); err != nil {
				return err
			}
		}
		sc.stay.ExpectedCheckOutAt = ComputeCheckoutTime(in.KeepTime, sc.stay.ExpectedCheckOutAt, sc.now, *newType)

		if err := s.rooms.Transition(ctx, tx, newRoom, models.RoomOcupada); err != nil {
			return err
		}
		if err := s.rooms.Transition(ctx, tx, sc.room, models.RoomSucia); err != nil {
			return err
		}

		change := &models.RoomChange{
			StayID:          sc.stay.ID,
			FromRoomID:      sc.room.ID,
			ToRoomID:        newRoom.ID,
			PriceDifference: diff,
			KeepTime:        in.KeepTime,
			Reason:          reason,
			ChangedAt:       sc.now,
		}
		if err := tx.CreateRoomChange(ctx, change); err != nil {
			return fromStore(err, nil)
		}
		sc.stay.RoomID = newRoom.ID
		from, to = sc.room.RoomNumber, newRoom.RoomNumber
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.PriceDifference = diff
	s.log.Info("room changed",
		zap.Uint("stay_id", stayID),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("price_difference", diff.StringFixed(2)))
	s.notify.Notify(notify.LevelInfo, "Room change", fmt.Sprintf("Stay %d moved from %s to %s", stayID, from, to))
	return res, nil
}

// ---------------------------
// Queries
// ---------------------------

func (s *StayService) GetStayDetails(ctx context.Context, stayID uint) (*StayDetails, error) {
	stay, err := s.Store.GetStay(ctx, stayID)
	if err != nil {
		return nil, fromStore(err, ErrStayNotFound)
	}
	room, err := s.Store.GetRoom(ctx, stay.RoomID)
	if err != nil {
		return nil, fromStore(err, ErrRoomNotFound)
	}
	order, err := s.Store.GetOrder(ctx, stay.SalesOrderID)
	if err != nil {
		return nil, fromStore(err, ErrOrderNotFound)
	}
	items, err := s.Store.ListItems(ctx, order.ID)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	payments, err := s.Store.ListPayments(ctx, order.ID)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	changes, err := s.Store.ListRoomChanges(ctx, stay.ID)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	if items == nil {
		items = []models.SalesOrderItem{}
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	if changes == nil {
		changes = []models.RoomChange{}
	}
	return &StayDetails{
		Stay:             *stay,
		Room:             *room,
		Order:            *order,
		Items:            items,
		Payments:         payments,
		RoomChanges:      changes,
		ToleranceExpired: stay.Status == models.StayActiva && IsToleranceExpired(*stay, s.clock.Now()),
		PendingPayment:   stay.Status == models.StayActiva && order.RemainingAmount.IsPositive(),
	}, nil
}

func (s *StayService) ListActiveStays(ctx context.Context) ([]models.RoomStay, error) {
	stays, err := s.Store.ListStaysByStatus(ctx, models.StayActiva)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	if stays == nil {
		stays = []models.RoomStay{}
	}
	return stays, nil
}

// ExpiredToleranceStays lists active stays whose tolerance window has run out
// and has not been billed yet.
func (s *StayService) ExpiredToleranceStays(ctx context.Context) ([]models.RoomStay, error) {
	stays, err := s.ListActiveStays(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]models.RoomStay, 0)
	for _, st := range stays {
		if !IsToleranceExpired(st, now) {
			continue
		}
		charged, err := s.Store.ItemExistsByDedupKey(ctx, ToleranceDedupKey(st.ID, *st.ToleranceStartedAt))
		if err != nil {
			return nil, fromStore(err, nil)
		}
		if !charged {
			out = append(out, st)
		}
	}
	return out, nil
}
