package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"motel-backend/models"
)

const mysqlDuplicateEntry = 1062

// GormStore implements Store on top of *gorm.DB. Inside a transaction, reads
// of rooms, stays and orders take row locks (SELECT ... FOR UPDATE).
type GormStore struct {
	db   *gorm.DB
	inTx bool
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true})
	})
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *GormStore) locking(ctx context.Context) *gorm.DB {
	db := s.conn(ctx)
	if s.inTx {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: %s", ErrDuplicate, myErr.Message)
	}
	return err
}

// ---------------------------
// Rooms
// ---------------------------

func (s *GormStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.conn(ctx).Preload("RoomType").Order("room_number").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", translate(err))
	}
	return rooms, nil
}

func (s *GormStore) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.locking(ctx).First(&room, id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (s *GormStore) CreateRoom(ctx context.Context, room *models.Room) error {
	return translate(s.conn(ctx).Create(room).Error)
}

func (s *GormStore) UpdateRoomStatus(ctx context.Context, id uint, from, to models.RoomStatus) error {
	res := s.conn(ctx).Model(&models.Room{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to update room %d status: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// ---------------------------
// Room types
// ---------------------------

func (s *GormStore) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	var types []models.RoomType
	if err := s.conn(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", translate(err))
	}
	return types, nil
}

func (s *GormStore) GetRoomType(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.conn(ctx).First(&rt, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rt, nil
}

func (s *GormStore) CreateRoomType(ctx context.Context, rt *models.RoomType) error {
	return translate(s.conn(ctx).Create(rt).Error)
}

// ---------------------------
// Stays
// ---------------------------

func (s *GormStore) CreateStay(ctx context.Context, stay *models.RoomStay) error {
	return translate(s.conn(ctx).Create(stay).Error)
}

func (s *GormStore) GetStay(ctx context.Context, id uint) (*models.RoomStay, error) {
	var stay models.RoomStay
	if err := s.locking(ctx).First(&stay, id).Error; err != nil {
		return nil, translate(err)
	}
	return &stay, nil
}

func (s *GormStore) SaveStay(ctx context.Context, stay *models.RoomStay) error {
	return translate(s.conn(ctx).Save(stay).Error)
}

func (s *GormStore) ListStaysByStatus(ctx context.Context, status models.StayStatus) ([]models.RoomStay, error) {
	var stays []models.RoomStay
	if err := s.conn(ctx).Where("status = ?", status).Order("id").Find(&stays).Error; err != nil {
		return nil, fmt.Errorf("failed to list stays: %w", translate(err))
	}
	return stays, nil
}

func (s *GormStore) FindActiveStayByRoom(ctx context.Context, roomID uint) (*models.RoomStay, error) {
	var stay models.RoomStay
	err := s.locking(ctx).
		Where("room_id = ? AND status = ?", roomID, models.StayActiva).
		First(&stay).Error
	if err != nil {
		return nil, translate(err)
	}
	return &stay, nil
}

// ---------------------------
// Orders and items
// ---------------------------

func (s *GormStore) CreateOrder(ctx context.Context, order *models.SalesOrder) error {
	return translate(s.conn(ctx).Create(order).Error)
}

func (s *GormStore) GetOrder(ctx context.Context, id uint) (*models.SalesOrder, error) {
	var order models.SalesOrder
	if err := s.locking(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *GormStore) SaveOrder(ctx context.Context, order *models.SalesOrder) error {
	return translate(s.conn(ctx).Save(order).Error)
}

func (s *GormStore) CreateItem(ctx context.Context, item *models.SalesOrderItem) error {
	return translate(s.conn(ctx).Create(item).Error)
}

func (s *GormStore) ListItems(ctx context.Context, orderID uint) ([]models.SalesOrderItem, error) {
	var items []models.SalesOrderItem
	if err := s.conn(ctx).Where("sales_order_id = ?", orderID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", translate(err))
	}
	return items, nil
}

func (s *GormStore) ItemExistsByDedupKey(ctx context.Context, key string) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(&models.SalesOrderItem{}).Where("dedup_key = ?", key).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (s *GormStore) MarkItemsPaid(ctx context.Context, orderID uint, concept *models.ConceptType, paidAt time.Time, method models.PaymentMethod) (int64, error) {
	q := s.conn(ctx).Model(&models.SalesOrderItem{}).
		Where("sales_order_id = ? AND is_paid = ?", orderID, false)
	if concept != nil {
		q = q.Where("concept_type = ?", *concept)
	}
	res := q.Updates(map[string]interface{}{
		"is_paid":        true,
		"paid_at":        paidAt,
		"payment_method": method,
	})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark items paid: %w", translate(res.Error))
	}
	return res.RowsAffected, nil
}

// ---------------------------
// Payments and room changes
// ---------------------------

func (s *GormStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	return translate(s.conn(ctx).Create(p).Error)
}

func (s *GormStore) CreatePayments(ctx context.Context, ps []models.Payment) error {
	if len(ps) == 0 {
		return nil
	}
	return translate(s.conn(ctx).Create(&ps).Error)
}

func (s *GormStore) ListPayments(ctx context.Context, orderID uint) ([]models.Payment, error) {
	var ps []models.Payment
	if err := s.conn(ctx).Where("sales_order_id = ?", orderID).Order("id").Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", translate(err))
	}
	return ps, nil
}

func (s *GormStore) CreateRoomChange(ctx context.Context, rc *models.RoomChange) error {
	return translate(s.conn(ctx).Create(rc).Error)
}

func (s *GormStore) ListRoomChanges(ctx context.Context, stayID uint) ([]models.RoomChange, error) {
	var changes []models.RoomChange
	if err := s.conn(ctx).Where("stay_id = ?", stayID).Order("id").Find(&changes).Error; err != nil {
		return nil, fmt.Errorf("failed to list room changes: %w", translate(err))
	}
	return changes, nil
}
