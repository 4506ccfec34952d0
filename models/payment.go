package models

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodEfectivo      PaymentMethod = "EFECTIVO"
	MethodTarjeta       PaymentMethod = "TARJETA"
	MethodTransferencia PaymentMethod = "TRANSFERENCIA"
	MethodPendiente     PaymentMethod = "PENDIENTE"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodEfectivo, MethodTarjeta, MethodTransferencia, MethodPendiente:
		return true
	}
	return false
}

func (m *PaymentMethod) Scan(src interface{}) error {
	v, err := scanEnum(src, "PaymentMethod", func(x string) bool { return PaymentMethod(x).Valid() })
	if err != nil {
		return err
	}
	*m = PaymentMethod(v)
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return enumValue(string(m), "PaymentMethod", func(x string) bool { return PaymentMethod(x).Valid() })
}

type PaymentStatus string

const (
	PaymentPagado    PaymentStatus = "PAGADO"
	PaymentPendiente PaymentStatus = "PENDIENTE"
	PaymentCancelado PaymentStatus = "CANCELADO"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPagado, PaymentPendiente, PaymentCancelado:
		return true
	}
	return false
}

func (s *PaymentStatus) Scan(src interface{}) error {
	v, err := scanEnum(src, "PaymentStatus", func(x string) bool { return PaymentStatus(x).Valid() })
	if err != nil {
		return err
	}
	*s = PaymentStatus(v)
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return enumValue(string(s), "PaymentStatus", func(x string) bool { return PaymentStatus(x).Valid() })
}

type PaymentType string

const (
	PaymentCompleto PaymentType = "COMPLETO"
	PaymentParcial  PaymentType = "PARCIAL"
)

func (t PaymentType) Valid() bool {
	return t == PaymentCompleto || t == PaymentParcial
}

func (t *PaymentType) Scan(src interface{}) error {
	v, err := scanEnum(src, "PaymentType", func(x string) bool { return PaymentType(x).Valid() })
	if err != nil {
		return err
	}
	*t = PaymentType(v)
	return nil
}

func (t PaymentType) Value() (driver.Value, error) {
	return enumValue(string(t), "PaymentType", func(x string) bool { return PaymentType(x).Valid() })
}

// Payment concepts written by the stay lifecycle.
const (
	PaymentConceptCheckIn  = "CHECK_IN"
	PaymentConceptCheckout = "CHECKOUT"
	PaymentConceptExtras   = "EXTRAS"
	PaymentConceptRefund   = "REEMBOLSO"
)

// Payment is either an aggregate row (ParentPaymentID nil, method PENDIENTE)
// or an instrument row pointing at its aggregate.
type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalesOrderID    uint            `gorm:"column:sales_order_id;not null;index" json:"salesOrderId"`
	ParentPaymentID *uint           `gorm:"column:parent_payment_id;index" json:"parentPaymentId,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method          PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Terminal        string          `gorm:"size:64" json:"terminal,omitempty"`
	Concept         string          `gorm:"size:64" json:"concept"`
	Status          PaymentStatus   `gorm:"type:varchar(20);not null" json:"status"`
	PaymentType     PaymentType     `gorm:"column:payment_type;type:varchar(20);not null" json:"paymentType"`
	Reference       string          `gorm:"size:64;uniqueIndex" json:"reference"`

	CreatedAt time.Time `json:"createdAt"`
}

// RoomChange records every move of a stay between rooms.
type RoomChange struct {
	ID uint `gorm:"primaryKey" json:"id"`

	StayID          uint            `gorm:"column:stay_id;not null;index" json:"stayId"`
	FromRoomID      uint            `gorm:"column:from_room_id;not null" json:"fromRoomId"`
	ToRoomID        uint            `gorm:"column:to_room_id;not null" json:"toRoomId"`
	PriceDifference decimal.Decimal `gorm:"column:price_difference;type:decimal(12,2);not null" json:"priceDifference"`
	KeepTime        bool            `gorm:"column:keep_time" json:"keepTime"`
	Reason          string          `gorm:"type:text;not null" json:"reason"`
	ChangedAt       time.Time       `gorm:"column:changed_at;not null" json:"changedAt"`
}
