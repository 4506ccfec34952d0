package models

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderOpen      OrderStatus = "OPEN"
	OrderEnded     OrderStatus = "ENDED"
	OrderCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderOpen, OrderEnded, OrderCancelled:
		return true
	}
	return false
}

func (s *OrderStatus) Scan(src interface{}) error {
	v, err := scanEnum(src, "OrderStatus", func(x string) bool { return OrderStatus(x).Valid() })
	if err != nil {
		return err
	}
	*s = OrderStatus(v)
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return enumValue(string(s), "OrderStatus", func(x string) bool { return OrderStatus(x).Valid() })
}

type ConceptType string

const (
	ConceptBaseStay    ConceptType = "BASE_STAY"
	ConceptExtraPerson ConceptType = "EXTRA_PERSON"
	ConceptExtraHour   ConceptType = "EXTRA_HOUR"
	ConceptConsumption ConceptType = "CONSUMPTION"
)

func (c ConceptType) Valid() bool {
	switch c {
	case ConceptBaseStay, ConceptExtraPerson, ConceptExtraHour, ConceptConsumption:
		return true
	}
	return false
}

func (c *ConceptType) Scan(src interface{}) error {
	v, err := scanEnum(src, "ConceptType", func(x string) bool { return ConceptType(x).Valid() })
	if err != nil {
		return err
	}
	*c = ConceptType(v)
	return nil
}

func (c ConceptType) Value() (driver.Value, error) {
	return enumValue(string(c), "ConceptType", func(x string) bool { return ConceptType(x).Valid() })
}

// Item concept labels that are not concept types of their own.
const (
	ConceptLabelToleranceExpired = "TOLERANCIA_EXPIRADA"
	ConceptLabelRoomChange       = "CAMBIO_HABITACION"
)

// SalesOrder is the bill attached to one stay. RemainingAmount is kept equal
// to Total - PaidAmount by the ledger operations.
type SalesOrder struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	PaidAmount      decimal.Decimal `gorm:"column:paid_amount;type:decimal(12,2);not null" json:"paidAmount"`
	RemainingAmount decimal.Decimal `gorm:"column:remaining_amount;type:decimal(12,2);not null" json:"remainingAmount"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SalesOrderItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalesOrderID uint            `gorm:"column:sales_order_id;not null;index" json:"salesOrderId"`
	ConceptType  ConceptType     `gorm:"column:concept_type;type:varchar(20);not null" json:"conceptType"`
	Concept      string          `gorm:"size:64" json:"concept,omitempty"`
	Qty          int             `gorm:"not null;default:1" json:"qty"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2);not null" json:"unitPrice"`

	IsPaid        bool           `gorm:"column:is_paid;not null;default:false" json:"isPaid"`
	PaidAt        *time.Time     `gorm:"column:paid_at" json:"paidAt,omitempty"`
	PaymentMethod *PaymentMethod `gorm:"column:payment_method;type:varchar(20)" json:"paymentMethod,omitempty"`

	// DedupKey is unique when set; MySQL allows many NULLs under a unique index.
	DedupKey *string `gorm:"column:dedup_key;size:128;uniqueIndex" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func (i SalesOrderItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Qty)))
}
