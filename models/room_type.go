package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoomType carries the pricing rules for every room of that type.
// IsHotel marks hotel/tower types, which do not use tolerance windows.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name             string          `gorm:"size:100;uniqueIndex" json:"name"`
	Description      string          `json:"description"`
	BasePrice        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"basePrice"`
	WeekdayHours     int             `gorm:"not null;default:4" json:"weekdayHours"`
	WeekendHours     int             `gorm:"not null;default:4" json:"weekendHours"`
	MaxPeople        int             `gorm:"not null;default:2" json:"maxPeople"`
	ExtraPersonPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"extraPersonPrice"`
	ExtraHourPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"extraHourPrice"`
	IsHotel          bool            `gorm:"not null;default:false" json:"isHotel"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
