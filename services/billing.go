package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"motel-backend/models"
)

const (
	// IncludedPeople is how many guests the base price covers.
	IncludedPeople = 2
	// DefaultStayHours applies when a room type leaves its hours unset.
	DefaultStayHours = 4
	// ToleranceWindow is fixed for every non-hotel room type.
	ToleranceWindow = time.Hour
)

// HoursForDay returns the stay length bought by the base price for an entry at t.
func HoursForDay(t time.Time, rt models.RoomType) int {
	hours := rt.WeekdayHours
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		hours = rt.WeekendHours
	}
	if hours <= 0 {
		return DefaultStayHours
	}
	return hours
}

func ExpectedCheckout(entry time.Time, rt models.RoomType) time.Time {
	return entry.Add(time.Duration(HoursForDay(entry, rt)) * time.Hour)
}

func ExtraPeople(people int) int {
	if people <= IncludedPeople {
		return 0
	}
	return people - IncludedPeople
}

func ExtraPeopleCost(rt models.RoomType, people int) decimal.Decimal {
	return rt.ExtraPersonPrice.Mul(decimal.NewFromInt(int64(ExtraPeople(people))))
}

// CheckInCharge is the amount billed at check-in: base price plus extra people.
func CheckInCharge(rt models.RoomType, people int) decimal.Decimal {
	return rt.BasePrice.Add(ExtraPeopleCost(rt, people))
}

// CheckInItems are the order lines written at check-in.
func CheckInItems(orderID uint, rt models.RoomType, people int) []models.SalesOrderItem {
	items := []models.SalesOrderItem{{
		SalesOrderID: orderID,
		ConceptType:  models.ConceptBaseStay,
		Qty:          1,
		UnitPrice:    rt.BasePrice,
	}}
	if n := ExtraPeople(people); n > 0 {
		items = append(items, models.SalesOrderItem{
			SalesOrderID: orderID,
			ConceptType:  models.ConceptExtraPerson,
			Qty:          n,
			UnitPrice:    rt.ExtraPersonPrice,
		})
	}
	return items
}

func ExtraPersonItem(orderID uint, rt models.RoomType) models.SalesOrderItem {
	return models.SalesOrderItem{
		SalesOrderID: orderID,
		ConceptType:  models.ConceptExtraPerson,
		Qty:          1,
		UnitPrice:    rt.ExtraPersonPrice,
	}
}

func ExtraHourItem(orderID uint, rt models.RoomType) models.SalesOrderItem {
	return models.SalesOrderItem{
		SalesOrderID: orderID,
		ConceptType:  models.ConceptExtraHour,
		Qty:          1,
		UnitPrice:    rt.ExtraHourPrice,
	}
}

// ToleranceDedupKey identifies one tolerance window of one stay.
func ToleranceDedupKey(stayID uint, windowStart time.Time) string {
	return fmt.Sprintf("tolerance:%d:%d", stayID, windowStart.UnixNano())
}

// ToleranceExpiredItem bills an expired tolerance window as one extra hour.
func ToleranceExpiredItem(orderID, stayID uint, rt models.RoomType, windowStart time.Time) models.SalesOrderItem {
	key := ToleranceDedupKey(stayID, windowStart)
	return models.SalesOrderItem{
		SalesOrderID: orderID,
		ConceptType:  models.ConceptExtraHour,
		Concept:      models.ConceptLabelToleranceExpired,
		Qty:          1,
		UnitPrice:    rt.ExtraHourPrice,
		DedupKey:     &key,
	}
}

// RoomChangeItem carries the base price delta of a room change; it is
// negative when moving to a cheaper room.
func RoomChangeItem(orderID uint, delta decimal.Decimal) models.SalesOrderItem {
	return models.SalesOrderItem{
		SalesOrderID: orderID,
		ConceptType:  models.ConceptBaseStay,
		Concept:      models.ConceptLabelRoomChange,
		Qty:          1,
		UnitPrice:    delta,
	}
}

// IsToleranceExpired reports whether the stay's tolerance window has run out at now.
func IsToleranceExpired(stay models.RoomStay, now time.Time) bool {
	if stay.ToleranceStartedAt == nil {
		return false
	}
	return now.Sub(*stay.ToleranceStartedAt) >= ToleranceWindow
}
