package config

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"motel-backend/models"
	"motel-backend/store"
)

// SeedDatabase creates a starter catalog when the store has no room types.
// It is a no-op on a store that already has data.
func SeedDatabase(ctx context.Context, st store.Store, log *zap.Logger) error {
	types, err := st.ListRoomTypes(ctx)
	if err != nil {
		return err
	}
	if len(types) > 0 {
		log.Info("catalog already seeded", zap.Int("room_types", len(types)))
		return nil
	}

	roomTypes := []models.RoomType{
		{Name: "Sencilla", Description: "Cama matrimonial", BasePrice: decimal.NewFromInt(200), WeekdayHours: 4, WeekendHours: 4, MaxPeople: 2, ExtraPersonPrice: decimal.NewFromInt(40), ExtraHourPrice: decimal.NewFromInt(60)},
		{Name: "Doble", Description: "Dos camas", BasePrice: decimal.NewFromInt(250), WeekdayHours: 4, WeekendHours: 6, MaxPeople: 4, ExtraPersonPrice: decimal.NewFromInt(50), ExtraHourPrice: decimal.NewFromInt(80)},
		{Name: "Jacuzzi", Description: "Habitación con jacuzzi", BasePrice: decimal.NewFromInt(400), WeekdayHours: 4, WeekendHours: 6, MaxPeople: 4, ExtraPersonPrice: decimal.NewFromInt(70), ExtraHourPrice: decimal.NewFromInt(120)},
		{Name: "Torre", Description: "Hotel, por noche", BasePrice: decimal.NewFromInt(650), WeekdayHours: 12, WeekendHours: 12, MaxPeople: 3, ExtraPersonPrice: decimal.NewFromInt(100), ExtraHourPrice: decimal.NewFromInt(100), IsHotel: true},
	}

	return st.Transaction(ctx, func(tx store.Store) error {
		for i := range roomTypes {
			rt := &roomTypes[i]
			if err := tx.CreateRoomType(ctx, rt); err != nil {
				return fmt.Errorf("seed room type %s: %w", rt.Name, err)
			}
			for n := 1; n <= 3; n++ {
				room := models.Room{
					RoomTypeID: rt.ID,
					RoomNumber: fmt.Sprintf("%d%02d", i+1, n),
					Status:     models.RoomLibre,
					Floor:      fmt.Sprint(i + 1),
				}
				if err := tx.CreateRoom(ctx, &room); err != nil {
					return fmt.Errorf("seed room %s: %w", room.RoomNumber, err)
				}
			}
		}
		log.Info("catalog seeded", zap.Int("room_types", len(roomTypes)), zap.Int("rooms", len(roomTypes)*3))
		return nil
	})
}
