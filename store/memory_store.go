package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"motel-backend/models"
)

type memoryData struct {
	nextID    uint
	rooms     map[uint]models.Room
	roomTypes map[uint]models.RoomType
	stays     map[uint]models.RoomStay
	orders    map[uint]models.SalesOrder
	items     map[uint]models.SalesOrderItem
	payments  map[uint]models.Payment
	changes   map[uint]models.RoomChange
}

func newMemoryData() *memoryData {
	return &memoryData{
		rooms:     make(map[uint]models.Room),
		roomTypes: make(map[uint]models.RoomType),
		stays:     make(map[uint]models.RoomStay),
		orders:    make(map[uint]models.SalesOrder),
		items:     make(map[uint]models.SalesOrderItem),
		payments:  make(map[uint]models.Payment),
		changes:   make(map[uint]models.RoomChange),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *memoryData) clone() *memoryData {
	return &memoryData{
		nextID:    d.nextID,
		rooms:     cloneMap(d.rooms),
		roomTypes: cloneMap(d.roomTypes),
		stays:     cloneMap(d.stays),
		orders:    cloneMap(d.orders),
		items:     cloneMap(d.items),
		payments:  cloneMap(d.payments),
		changes:   cloneMap(d.changes),
	}
}

func (d *memoryData) id() uint {
	d.nextID++
	return d.nextID
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// MemoryStore keeps everything in maps. Transactions are serialized on one
// mutex and roll back by restoring a snapshot taken at the start.
type MemoryStore struct {
	mu   *sync.Mutex
	data *memoryData
	inTx bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mu: &sync.Mutex{}, data: newMemoryData()}
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.data.clone()
	tx := &MemoryStore{mu: s.mu, data: s.data, inTx: true}
	if err := fn(tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

// ---------------------------
// Rooms
// ---------------------------

func (s *MemoryStore) ListRooms(_ context.Context) ([]models.Room, error) {
	defer s.lock()()
	out := make([]models.Room, 0, len(s.data.rooms))
	for _, id := range sortedKeys(s.data.rooms) {
		r := s.data.rooms[id]
		r.RoomType = s.data.roomTypes[r.RoomTypeID]
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (s *MemoryStore) GetRoom(_ context.Context, id uint) (*models.Room, error) {
	defer s.lock()()
	r, ok := s.data.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) CreateRoom(_ context.Context, room *models.Room) error {
	defer s.lock()()
	if !room.Status.Valid() {
		return fmt.Errorf("invalid room status %q", room.Status)
	}
	for _, r := range s.data.rooms {
		if r.RoomNumber == room.RoomNumber {
			return fmt.Errorf("%w: room number %s", ErrDuplicate, room.RoomNumber)
		}
	}
	room.ID = s.data.id()
	stored := *room
	stored.RoomType = models.RoomType{}
	s.data.rooms[room.ID] = stored
	return nil
}

func (s *MemoryStore) UpdateRoomStatus(_ context.Context, id uint, from, to models.RoomStatus) error {
	defer s.lock()()
	if !to.Valid() {
		return fmt.Errorf("invalid room status %q", to)
	}
	r, ok := s.data.rooms[id]
	if !ok || r.Status != from {
		return ErrConflict
	}
	r.Status = to
	s.data.rooms[id] = r
	return nil
}

// ---------------------------
// Room types
// ---------------------------

func (s *MemoryStore) ListRoomTypes(_ context.Context) ([]models.RoomType, error) {
	defer s.lock()()
	out := make([]models.RoomType, 0, len(s.data.roomTypes))
	for _, id := range sortedKeys(s.data.roomTypes) {
		out = append(out, s.data.roomTypes[id])
	}
	return out, nil
}

func (s *MemoryStore) GetRoomType(_ context.Context, id uint) (*models.RoomType, error) {
	defer s.lock()()
	rt, ok := s.data.roomTypes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rt, nil
}

func (s *MemoryStore) CreateRoomType(_ context.Context, rt *models.RoomType) error {
	defer s.lock()()
	for _, existing := range s.data.roomTypes {
		if existing.Name == rt.Name {
			return fmt.Errorf("%w: room type %s", ErrDuplicate, rt.Name)
		}
	}
	rt.ID = s.data.id()
	s.data.roomTypes[rt.ID] = *rt
	return nil
}

// ---------------------------
// Stays
// ---------------------------

func (s *MemoryStore) CreateStay(_ context.Context, stay *models.RoomStay) error {
	defer s.lock()()
	if !stay.Status.Valid() {
		return fmt.Errorf("invalid stay status %q", stay.Status)
	}
	for _, existing := range s.data.stays {
		if existing.SalesOrderID == stay.SalesOrderID {
			return fmt.Errorf("%w: sales order %d already has a stay", ErrDuplicate, stay.SalesOrderID)
		}
	}
	stay.ID = s.data.id()
	s.data.stays[stay.ID] = *stay
	return nil
}

func (s *MemoryStore) GetStay(_ context.Context, id uint) (*models.RoomStay, error) {
	defer s.lock()()
	st, ok := s.data.stays[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &st, nil
}

func (s *MemoryStore) SaveStay(_ context.Context, stay *models.RoomStay) error {
	defer s.lock()()
	if !stay.Status.Valid() {
		return fmt.Errorf("invalid stay status %q", stay.Status)
	}
	if _, ok := s.data.stays[stay.ID]; !ok {
		return ErrNotFound
	}
	s.data.stays[stay.ID] = *stay
	return nil
}

func (s *MemoryStore) ListStaysByStatus(_ context.Context, status models.StayStatus) ([]models.RoomStay, error) {
	defer s.lock()()
	var out []models.RoomStay
	for _, id := range sortedKeys(s.data.stays) {
		if st := s.data.stays[id]; st.Status == status {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindActiveStayByRoom(_ context.Context, roomID uint) (*models.RoomStay, error) {
	defer s.lock()()
	for _, id := range sortedKeys(s.data.stays) {
		if st := s.data.stays[id]; st.RoomID == roomID && st.Status == models.StayActiva {
			return &st, nil
		}
	}
	return nil, ErrNotFound
}

// ---------------------------
// Orders and items
// ---------------------------

func (s *MemoryStore) CreateOrder(_ context.Context, order *models.SalesOrder) error {
	defer s.lock()()
	if !order.Status.Valid() {
		return fmt.Errorf("invalid order status %q", order.Status)
	}
	order.ID = s.data.id()
	s.data.orders[order.ID] = *order
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id uint) (*models.SalesOrder, error) {
	defer s.lock()()
	o, ok := s.data.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *MemoryStore) SaveOrder(_ context.Context, order *models.SalesOrder) error {
	defer s.lock()()
	if !order.Status.Valid() {
		return fmt.Errorf("invalid order status %q", order.Status)
	}
	if _, ok := s.data.orders[order.ID]; !ok {
		return ErrNotFound
	}
	s.data.orders[order.ID] = *order
	return nil
}

func (s *MemoryStore) CreateItem(_ context.Context, item *models.SalesOrderItem) error {
	defer s.lock()()
	if !item.ConceptType.Valid() {
		return fmt.Errorf("invalid concept type %q", item.ConceptType)
	}
	if item.DedupKey != nil {
		for _, existing := range s.data.items {
			if existing.DedupKey != nil && *existing.DedupKey == *item.DedupKey {
				return fmt.Errorf("%w: dedup key %s", ErrDuplicate, *item.DedupKey)
			}
		}
	}
	item.ID = s.data.id()
	s.data.items[item.ID] = *item
	return nil
}

func (s *MemoryStore) ListItems(_ context.Context, orderID uint) ([]models.SalesOrderItem, error) {
	defer s.lock()()
	var out []models.SalesOrderItem
	for _, id := range sortedKeys(s.data.items) {
		if it := s.data.items[id]; it.SalesOrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *MemoryStore) ItemExistsByDedupKey(_ context.Context, key string) (bool, error) {
	defer s.lock()()
	for _, it := range s.data.items {
		if it.DedupKey != nil && *it.DedupKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) MarkItemsPaid(_ context.Context, orderID uint, concept *models.ConceptType, paidAt time.Time, method models.PaymentMethod) (int64, error) {
	defer s.lock()()
	var n int64
	for id, it := range s.data.items {
		if it.SalesOrderID != orderID || it.IsPaid {
			continue
		}
		if concept != nil && it.ConceptType != *concept {
			continue
		}
		at := paidAt
		m := method
		it.IsPaid = true
		it.PaidAt = &at
		it.PaymentMethod = &m
		s.data.items[id] = it
		n++
	}
	return n, nil
}

// ---------------------------
// Payments and room changes
// ---------------------------

func (s *MemoryStore) insertPayment(p *models.Payment) error {
	if !p.Method.Valid() || !p.Status.Valid() || !p.PaymentType.Valid() {
		return fmt.Errorf("invalid payment enums %q/%q/%q", p.Method, p.Status, p.PaymentType)
	}
	for _, existing := range s.data.payments {
		if existing.Reference == p.Reference {
			return fmt.Errorf("%w: payment reference %s", ErrDuplicate, p.Reference)
		}
	}
	p.ID = s.data.id()
	s.data.payments[p.ID] = *p
	return nil
}

func (s *MemoryStore) CreatePayment(_ context.Context, p *models.Payment) error {
	defer s.lock()()
	return s.insertPayment(p)
}

// CreatePayments inserts all rows or none.
func (s *MemoryStore) CreatePayments(_ context.Context, ps []models.Payment) error {
	defer s.lock()()
	snapshot := s.data.clone()
	for i := range ps {
		if err := s.insertPayment(&ps[i]); err != nil {
			*s.data = *snapshot
			return err
		}
	}
	return nil
}

func (s *MemoryStore) ListPayments(_ context.Context, orderID uint) ([]models.Payment, error) {
	defer s.lock()()
	var out []models.Payment
	for _, id := range sortedKeys(s.data.payments) {
		if p := s.data.payments[id]; p.SalesOrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateRoomChange(_ context.Context, rc *models.RoomChange) error {
	defer s.lock()()
	rc.ID = s.data.id()
	s.data.changes[rc.ID] = *rc
	return nil
}

func (s *MemoryStore) ListRoomChanges(_ context.Context, stayID uint) ([]models.RoomChange, error) {
	defer s.lock()()
	var out []models.RoomChange
	for _, id := range sortedKeys(s.data.changes) {
		if rc := s.data.changes[id]; rc.StayID == stayID {
			out = append(out, rc)
		}
	}
	return out, nil
}
