package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
)

// OrderRepositoryStub keeps orders in memory and lets tests inject failures.
type OrderRepositoryStub struct {
	mu sync.Mutex

	Orders map[string]model.Order

	CreateErr error
	GetErr    error
	ListErr   error
	UpdateErr error
	SaveErr   error

	ListLimits []int
	Saved      []model.Order
}

// NewOrderRepositoryStub seeds the stub with orders.
func NewOrderRepositoryStub(orders ...model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{Orders: make(map[string]model.Order)}
	for _, o := range orders {
		s.Orders[o.ID] = o
	}
	return s
}

// Create stores order unless its id is taken.
func (s *OrderRepositoryStub) Create(_ context.Context, order model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if s.Orders == nil {
		s.Orders = make(map[string]model.Order)
	}
	if _, exists := s.Orders[order.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	s.Orders[order.ID] = order
	return nil
}

// Get returns a copy of the stored order.
func (s *OrderRepositoryStub) Get(_ context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	return &order, nil
}

// List returns matching orders oldest first.
func (s *OrderRepositoryStub) List(_ context.Context, statuses []model.OrderStatus, limit int) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListLimits = append(s.ListLimits, limit)
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return filterOrders(s.Orders, statuses, limit), nil
}

// UpdateStatus performs a compare-and-set on the stored status.
func (s *OrderRepositoryStub) UpdateStatus(_ context.Context, id string, from, to model.OrderStatus, at time.Time) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	if order.Status != from {
		return nil, domainErrors.ErrInvalidTransition
	}
	order.Status = to
	order.StatusChangedAt = at
	order.UpdatedAt = at
	s.Orders[id] = order
	return &order, nil
}

// Save overwrites the order unless the stored copy has a later status, or the
// same status with a newer UpdatedAt.
func (s *OrderRepositoryStub) Save(_ context.Context, order model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	stored, ok := s.Orders[order.ID]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	s.Saved = append(s.Saved, order)
	switch {
	case stored.Status.Rank() > order.Status.Rank(),
		stored.Status == order.Status && stored.UpdatedAt.After(order.UpdatedAt):
		return domainErrors.ErrInvalidTransition
	}
	if order.UpdatedAt.Before(stored.UpdatedAt) {
		order.UpdatedAt = stored.UpdatedAt
	}
	s.Orders[order.ID] = order
	return nil
}

// Replace swaps the stored order, simulating a concurrent writer.
func (s *OrderRepositoryStub) Replace(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Orders[order.ID] = order
}

// Snapshot returns the stored order or the zero value.
func (s *OrderRepositoryStub) Snapshot(id string) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Orders[id]
}

// SnapshotCacheStub is an in-memory snapshot cache.
type SnapshotCacheStub struct {
	mu      sync.Mutex
	Orders  map[string]model.Order
	SaveErr error
	GetErr  error
}

// NewSnapshotCacheStub seeds the cache with orders.
func NewSnapshotCacheStub(orders ...model.Order) *SnapshotCacheStub {
	s := &SnapshotCacheStub{Orders: make(map[string]model.Order)}
	for _, o := range orders {
		s.Orders[o.ID] = o
	}
	return s
}

// Save keeps the newest copy of order.
func (s *SnapshotCacheStub) Save(_ context.Context, order model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if s.Orders == nil {
		s.Orders = make(map[string]model.Order)
	}
	if stored, ok := s.Orders[order.ID]; ok && stored.UpdatedAt.After(order.UpdatedAt) {
		return nil
	}
	s.Orders[order.ID] = order
	return nil
}

// Get returns the cached order.
func (s *SnapshotCacheStub) Get(_ context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	return &order, nil
}

// List returns cached orders oldest first.
func (s *SnapshotCacheStub) List(_ context.Context, statuses []model.OrderStatus) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	return filterOrders(s.Orders, statuses, 0), nil
}

// FeedbackRepositoryStub stores feedback in insertion order.
type FeedbackRepositoryStub struct {
	Items     []model.Feedback
	Err       error
	LastLimit int
}

// Create appends feedback.
func (s *FeedbackRepositoryStub) Create(_ context.Context, fb model.Feedback) error {
	if s.Err != nil {
		return s.Err
	}
	s.Items = append(s.Items, fb)
	return nil
}

// List returns up to limit items, newest first.
func (s *FeedbackRepositoryStub) List(_ context.Context, limit int) ([]model.Feedback, error) {
	s.LastLimit = limit
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Feedback, 0, len(s.Items))
	for i := len(s.Items) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, s.Items[i])
	}
	return out, nil
}

// MenuStub serves a fixed list of menu items.
type MenuStub struct {
	Items []model.MenuItem
}

// All returns every item.
func (m MenuStub) All() []model.MenuItem {
	out := make([]model.MenuItem, len(m.Items))
	copy(out, m.Items)
	return out
}

// Get finds an item by id.
func (m MenuStub) Get(id string) (*model.MenuItem, error) {
	for _, item := range m.Items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, domainErrors.ErrMenuItemNotFound
}

// SampleMenu returns a small menu spanning three categories.
func SampleMenu() MenuStub {
	return MenuStub{Items: []model.MenuItem{
		{ID: "1", Name: "Classic Veg Burger", Description: "Crispy patty with lettuce", Price: 199, Category: "Burgers", PreparationTime: 5, Popular: true, Tags: []string{"vegetarian", "burger"}, Complexity: 2},
		{ID: "2", Name: "Paneer Tikka Burger", Description: "Smoky paneer with mint mayo", Price: 249, Category: "Burgers", PreparationTime: 6, Tags: []string{"vegetarian", "burger", "spicy"}},
		{ID: "3", Name: "Masala Fries", Description: "Fries tossed in spices", Price: 149, Category: "Sides", PreparationTime: 4, Popular: true, Tags: []string{"vegetarian", "sides", "spicy"}},
		{ID: "4", Name: "Cold Coffee", Description: "Iced coffee with cream", Price: 129, Category: "Beverages", PreparationTime: 3, Tags: []string{"drink", "cold"}, Complexity: 1},
		{ID: "5", Name: "Chocolate Shake", Description: "Thick chocolate shake", Price: 179, Category: "Beverages", PreparationTime: 4, Popular: true, Tags: []string{"drink", "cold", "sweet"}},
	}}
}

func filterOrders(orders map[string]model.Order, statuses []model.OrderStatus, limit int) []model.Order {
	wanted := make(map[model.OrderStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if len(wanted) == 0 || wanted[o.Status] {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
