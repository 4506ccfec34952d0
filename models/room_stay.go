package models

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type StayStatus string

const (
	StayActiva     StayStatus = "ACTIVA"
	StayFinalizada StayStatus = "FINALIZADA"
	StayCancelada  StayStatus = "CANCELADA"
)

func (s StayStatus) Valid() bool {
	switch s {
	case StayActiva, StayFinalizada, StayCancelada:
		return true
	}
	return false
}

// Terminal stays never re-open.
func (s StayStatus) Terminal() bool {
	return s == StayFinalizada || s == StayCancelada
}

func (s *StayStatus) Scan(src interface{}) error {
	v, err := scanEnum(src, "StayStatus", func(x string) bool { return StayStatus(x).Valid() })
	if err != nil {
		return err
	}
	*s = StayStatus(v)
	return nil
}

func (s StayStatus) Value() (driver.Value, error) {
	return enumValue(string(s), "StayStatus", func(x string) bool { return StayStatus(x).Valid() })
}

type ToleranceType string

const (
	TolerancePersonLeft ToleranceType = "PERSON_LEFT"
	ToleranceRoomEmpty  ToleranceType = "ROOM_EMPTY"
)

func (t ToleranceType) Valid() bool {
	return t == TolerancePersonLeft || t == ToleranceRoomEmpty
}

// ToleranceType is nullable in the table, so the empty value is accepted here.
func (t *ToleranceType) Scan(src interface{}) error {
	v, err := scanEnum(src, "ToleranceType", func(x string) bool { return x == "" || ToleranceType(x).Valid() })
	if err != nil {
		return err
	}
	*t = ToleranceType(v)
	return nil
}

func (t ToleranceType) Value() (driver.Value, error) {
	if t == "" {
		return nil, nil
	}
	return enumValue(string(t), "ToleranceType", func(x string) bool { return ToleranceType(x).Valid() })
}

type VehicleInfo struct {
	Plate string `json:"plate,omitempty"`
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`
	Color string `json:"color,omitempty"`
}

type RoomStay struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomID       uint       `gorm:"column:room_id;not null;index" json:"roomId"`
	SalesOrderID uint       `gorm:"column:sales_order_id;not null;uniqueIndex" json:"salesOrderId"`
	Status       StayStatus `gorm:"column:status;type:varchar(20);not null;index" json:"status"`

	CheckInAt          time.Time  `gorm:"column:check_in_at;not null" json:"checkInAt"`
	ExpectedCheckOutAt time.Time  `gorm:"column:expected_check_out_at;not null" json:"expectedCheckOutAt"`
	ActualCheckOutAt   *time.Time `gorm:"column:actual_check_out_at" json:"actualCheckOutAt,omitempty"`

	CurrentPeople int `gorm:"column:current_people;not null" json:"currentPeople"`
	TotalPeople   int `gorm:"column:total_people;not null" json:"totalPeople"`

	ToleranceStartedAt *time.Time    `gorm:"column:tolerance_started_at" json:"toleranceStartedAt,omitempty"`
	ToleranceType      ToleranceType `gorm:"column:tolerance_type;type:varchar(20)" json:"toleranceType,omitempty"`

	Vehicle  datatypes.JSONType[VehicleInfo] `gorm:"column:vehicle" json:"vehicle"`
	ValetRef string                          `gorm:"column:valet_ref;size:64" json:"valetRef,omitempty"`

	CancellationReason string          `gorm:"column:cancellation_reason;type:text" json:"cancellationReason,omitempty"`
	RefundAmount       decimal.Decimal `gorm:"column:refund_amount;type:decimal(12,2);not null;default:0" json:"refundAmount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
