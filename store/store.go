// Package store persists rooms, stays, orders and payments.
//
// Two backends implement Store: GormStore (MySQL through gorm) and
// MemoryStore (maps guarded by a mutex, used by tests and STORE_DRIVER=memory).
// Every multi-row write of the stay lifecycle runs inside Transaction so a
// failed step leaves nothing behind.
package store

import (
	"context"
	"errors"
	"time"

	"motel-backend/models"
)

var (
	ErrNotFound  = errors.New("store: record not found")
	ErrConflict  = errors.New("store: conditional update matched no rows")
	ErrDuplicate = errors.New("store: duplicate key")
)

type Store interface {
	// Transaction runs fn as one unit of work. Calls on the Store passed to
	// fn join the same unit; nested Transaction calls run inline.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	ListRooms(ctx context.Context) ([]models.Room, error)
	GetRoom(ctx context.Context, id uint) (*models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	// UpdateRoomStatus writes to only when the stored status is still from.
	// It returns ErrConflict when no row matched.
	UpdateRoomStatus(ctx context.Context, id uint, from, to models.RoomStatus) error

	ListRoomTypes(ctx context.Context) ([]models.RoomType, error)
	GetRoomType(ctx context.Context, id uint) (*models.RoomType, error)
	CreateRoomType(ctx context.Context, rt *models.RoomType) error

	CreateStay(ctx context.Context, stay *models.RoomStay) error
	GetStay(ctx context.Context, id uint) (*models.RoomStay, error)
	SaveStay(ctx context.Context, stay *models.RoomStay) error
	ListStaysByStatus(ctx context.Context, status models.StayStatus) ([]models.RoomStay, error)
	FindActiveStayByRoom(ctx context.Context, roomID uint) (*models.RoomStay, error)

	CreateOrder(ctx context.Context, order *models.SalesOrder) error
	GetOrder(ctx context.Context, id uint) (*models.SalesOrder, error)
	SaveOrder(ctx context.Context, order *models.SalesOrder) error

	// CreateItem returns ErrDuplicate when item.DedupKey is already taken.
	CreateItem(ctx context.Context, item *models.SalesOrderItem) error
	ListItems(ctx context.Context, orderID uint) ([]models.SalesOrderItem, error)
	ItemExistsByDedupKey(ctx context.Context, key string) (bool, error)
	// MarkItemsPaid flags unpaid items of the order; a nil concept marks all of them.
	MarkItemsPaid(ctx context.Context, orderID uint, concept *models.ConceptType, paidAt time.Time, method models.PaymentMethod) (int64, error)

	CreatePayment(ctx context.Context, p *models.Payment) error
	CreatePayments(ctx context.Context, ps []models.Payment) error
	ListPayments(ctx context.Context, orderID uint) ([]models.Payment, error)

	CreateRoomChange(ctx context.Context, rc *models.RoomChange) error
	ListRoomChanges(ctx context.Context, stayID uint) ([]models.RoomChange, error)
}
