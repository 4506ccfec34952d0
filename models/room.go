package models

import (
	"database/sql/driver"

	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomLibre     RoomStatus = "LIBRE"
	RoomOcupada   RoomStatus = "OCUPADA"
	RoomSucia     RoomStatus = "SUCIA"
	RoomBloqueada RoomStatus = "BLOQUEADA"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomLibre, RoomOcupada, RoomSucia, RoomBloqueada:
		return true
	}
	return false
}

func (s *RoomStatus) Scan(src interface{}) error {
	v, err := scanEnum(src, "RoomStatus", func(x string) bool { return RoomStatus(x).Valid() })
	if err != nil {
		return err
	}
	*s = RoomStatus(v)
	return nil
}

func (s RoomStatus) Value() (driver.Value, error) {
	return enumValue(string(s), "RoomStatus", func(x string) bool { return RoomStatus(x).Valid() })
}

type Room struct {
	gorm.Model

	RoomTypeID  uint       `json:"roomTypeId" gorm:"column:room_type_id;not null;index"`
	RoomNumber  string     `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Status      RoomStatus `json:"status" gorm:"column:status;type:varchar(20);not null;default:LIBRE;index"`
	Floor       string     `json:"floor" gorm:"type:varchar(10)"`
	Description string     `json:"description" gorm:"type:text"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
}
