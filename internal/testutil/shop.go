package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// MemoryShop is an in-memory model.SweetStore and model.OrderStore. Sales
// resolve buyer emails through users when it is set.
type MemoryShop struct {
	mu     sync.Mutex
	sweets map[uuid.UUID]model.Sweet
	orders []model.Order
	users  model.UserStore
	now    func() time.Time
}

var (
	_ model.SweetStore = (*MemoryShop)(nil)
	_ model.OrderStore = (*MemoryShop)(nil)
)

func NewMemoryShop(users model.UserStore) *MemoryShop {
	return &MemoryShop{
		sweets: make(map[uuid.UUID]model.Sweet),
		users:  users,
		now:    time.Now,
	}
}

// tick keeps CreatedAt strictly increasing so newest-first order is stable.
func (s *MemoryShop) tick() time.Time {
	t := s.now()
	s.now = func() time.Time { return t.Add(time.Millisecond) }
	return t
}

func (s *MemoryShop) Create(_ context.Context, sweet model.Sweet) (model.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	sweet.ID = uuid.New()
	sweet.CreatedAt = now
	sweet.UpdatedAt = now
	s.sweets[sweet.ID] = sweet
	return sweet, nil
}

func (s *MemoryShop) GetByID(_ context.Context, id uuid.UUID) (model.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sweet, ok := s.sweets[id]
	if !ok {
		return model.Sweet{}, model.ErrNotFound
	}
	return sweet, nil
}

func (s *MemoryShop) List(_ context.Context) ([]model.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Sweet, 0, len(s.sweets))
	for _, sweet := range s.sweets {
		out = append(out, sweet)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryShop) Update(_ context.Context, id uuid.UUID, update model.SweetUpdate) (model.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sweet, ok := s.sweets[id]
	if !ok {
		return model.Sweet{}, model.ErrNotFound
	}
	if update.Name != nil {
		sweet.Name = *update.Name
	}
	if update.Category != nil {
		sweet.Category = *update.Category
	}
	if update.Price != nil {
		sweet.Price = *update.Price
	}
	if update.Quantity != nil {
		sweet.Quantity = *update.Quantity
	}
	if update.Description != nil {
		sweet.Description = *update.Description
	}
	sweet.UpdatedAt = s.tick()
	s.sweets[id] = sweet
	return sweet, nil
}

func (s *MemoryShop) SetImageKey(_ context.Context, id uuid.UUID, key string) (model.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sweet, ok := s.sweets[id]
	if !ok {
		return model.Sweet{}, model.ErrNotFound
	}
	sweet.ImageKey = key
	s.sweets[id] = sweet
	return sweet, nil
}

func (s *MemoryShop) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sweets[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.sweets, id)
	return nil
}

func (s *MemoryShop) Restock(_ context.Context, id uuid.UUID, quantity int) (model.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sweet, ok := s.sweets[id]
	if !ok {
		return model.Sweet{}, model.ErrNotFound
	}
	sweet.Quantity += quantity
	s.sweets[id] = sweet
	return sweet, nil
}

func (s *MemoryShop) Purchase(_ context.Context, params model.PurchaseParams) (model.Sweet, model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sweet, ok := s.sweets[params.SweetID]
	if !ok {
		return model.Sweet{}, model.Order{}, model.ErrNotFound
	}
	if sweet.Quantity < params.Quantity {
		return model.Sweet{}, model.Order{}, &model.InsufficientStockError{Available: sweet.Quantity}
	}
	sweet.Quantity -= params.Quantity
	s.sweets[sweet.ID] = sweet

	items := []model.OrderItem{{
		SweetID:  sweet.ID,
		Name:     sweet.Name,
		Quantity: params.Quantity,
		Price:    sweet.Price,
	}}
	order := model.Order{
		ID:          uuid.New(),
		UserID:      params.UserID,
		Items:       items,
		TotalAmount: model.Total(items),
		CreatedAt:   s.tick(),
	}
	s.orders = append(s.orders, order)
	return sweet, order, nil
}

func (s *MemoryShop) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].UserID == userID {
			out = append(out, s.orders[i])
		}
	}
	return out, nil
}

func (s *MemoryShop) ListAll(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0, len(s.orders))
	for i := len(s.orders) - 1; i >= 0; i-- {
		order := s.orders[i]
		if s.users != nil {
			if u, err := s.users.GetByID(ctx, order.UserID); err == nil {
				order.UserEmail = u.Email
			}
		}
		out = append(out, order)
	}
	return out, nil
}
