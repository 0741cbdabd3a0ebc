package test

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
	pkgAuth "github.com/polkiloo/tableside/internal/pkg/auth"
)

// RestaurantFacadeStub provides controllable behaviour for HTTP handlers.
// Every nil function falls back to a harmless default.
type RestaurantFacadeStub struct {
	LoginFn      func(context.Context, string, string) (string, error)
	ParseTokenFn func(string) (pkgAuth.Identity, error)

	MenuFn            func(string, string) []model.MenuItem
	MenuItemFn        func(string) (*model.MenuItem, error)
	RecommendationsFn func(string) ([]model.MenuItem, error)
	EstimateFn        func([]model.LineItem) (int, error)

	CartFn     func(context.Context, string) (*model.CartSummary, error)
	AddItemFn  func(context.Context, string, string, int) (*model.CartSummary, error)
	UpdateFn   func(context.Context, string, string, int) (*model.CartSummary, error)
	SetTableFn func(context.Context, string, int) (*model.CartSummary, error)
	PaymentFn  func(context.Context, string) (*model.Payment, error)
	CheckoutFn func(context.Context, string) (*model.Order, error)

	PlaceFn        func(context.Context, []model.LineItem, int) (*model.Order, error)
	OrderFn        func(context.Context, string) (*model.OrderView, error)
	OrdersFn       func(context.Context, []model.OrderStatus) ([]model.OrderView, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus) (*model.Order, error)
	AdvanceFn      func(context.Context, string) (*model.Order, error)
	AcknowledgeFn  func(context.Context, string) (*model.Order, error)
	StreamFn       func(http.ResponseWriter, *http.Request, string)

	DashboardFn func(context.Context) (*model.DashboardMetrics, error)
	FeedbackFn  func(context.Context, int) ([]model.Feedback, error)
	SubmitFn    func(context.Context, model.Feedback) (*model.Feedback, error)
	HealthErr   error

	mu     sync.Mutex
	load   model.KitchenLoad
	pinned bool
}

// Login returns a fixed token unless overridden.
func (s *RestaurantFacadeStub) Login(ctx context.Context, login, password string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken rejects every token unless overridden.
func (s *RestaurantFacadeStub) ParseToken(token string) (pkgAuth.Identity, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return pkgAuth.Identity{}, pkgAuth.ErrInvalidToken
}

// Menu returns the sample menu.
func (s *RestaurantFacadeStub) Menu(category, query string) []model.MenuItem {
	if s.MenuFn != nil {
		return s.MenuFn(category, query)
	}
	return SampleMenu().All()
}

// Categories returns the categories of the sample menu.
func (s *RestaurantFacadeStub) Categories() []string {
	return []string{"Burgers", "Sides", "Beverages"}
}

// MenuItem looks up the sample menu.
func (s *RestaurantFacadeStub) MenuItem(id string) (*model.MenuItem, error) {
	if s.MenuItemFn != nil {
		return s.MenuItemFn(id)
	}
	return SampleMenu().Get(id)
}

// Recommendations returns nothing unless overridden.
func (s *RestaurantFacadeStub) Recommendations(id string) ([]model.MenuItem, error) {
	if s.RecommendationsFn != nil {
		return s.RecommendationsFn(id)
	}
	return []model.MenuItem{}, nil
}

// Estimate returns ten minutes unless overridden.
func (s *RestaurantFacadeStub) Estimate(items []model.LineItem) (int, error) {
	if s.EstimateFn != nil {
		return s.EstimateFn(items)
	}
	return 10, nil
}

// CreateCart returns an empty cart.
func (s *RestaurantFacadeStub) CreateCart(context.Context) (*model.CartSummary, error) {
	return &model.CartSummary{Cart: model.Cart{ID: "cart", Items: []model.LineItem{}, TableNumber: 1}}, nil
}

// Cart returns the cart.
func (s *RestaurantFacadeStub) Cart(ctx context.Context, id string) (*model.CartSummary, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, id)
	}
	return &model.CartSummary{Cart: model.Cart{ID: id, Items: []model.LineItem{}, TableNumber: 1}}, nil
}

// ClearCart behaves like Cart.
func (s *RestaurantFacadeStub) ClearCart(ctx context.Context, id string) (*model.CartSummary, error) {
	return s.Cart(ctx, id)
}

// AddCartItem records nothing and returns the cart.
func (s *RestaurantFacadeStub) AddCartItem(ctx context.Context, id, itemID string, quantity int) (*model.CartSummary, error) {
	if s.AddItemFn != nil {
		return s.AddItemFn(ctx, id, itemID, quantity)
	}
	return s.Cart(ctx, id)
}

// UpdateCartItem returns the cart unless overridden.
func (s *RestaurantFacadeStub) UpdateCartItem(ctx context.Context, id, itemID string, quantity int) (*model.CartSummary, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, itemID, quantity)
	}
	return s.Cart(ctx, id)
}

// RemoveCartItem behaves like Cart.
func (s *RestaurantFacadeStub) RemoveCartItem(ctx context.Context, id, _ string) (*model.CartSummary, error) {
	return s.Cart(ctx, id)
}

// SetCartTable returns the cart unless overridden.
func (s *RestaurantFacadeStub) SetCartTable(ctx context.Context, id string, tableNumber int) (*model.CartSummary, error) {
	if s.SetTableFn != nil {
		return s.SetTableFn(ctx, id, tableNumber)
	}
	return s.Cart(ctx, id)
}

// Payment fails with an empty order unless overridden.
func (s *RestaurantFacadeStub) Payment(ctx context.Context, id string) (*model.Payment, error) {
	if s.PaymentFn != nil {
		return s.PaymentFn(ctx, id)
	}
	return nil, domainErrors.ErrEmptyOrder
}

// Checkout fails with an empty order unless overridden.
func (s *RestaurantFacadeStub) Checkout(ctx context.Context, id string) (*model.Order, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, id)
	}
	return nil, domainErrors.ErrEmptyOrder
}

// PlaceOrder creates a pending order.
func (s *RestaurantFacadeStub) PlaceOrder(ctx context.Context, items []model.LineItem, tableNumber int) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, items, tableNumber)
	}
	return &model.Order{ID: "order", Items: items, TableNumber: tableNumber, Status: model.OrderStatusPending}, nil
}

// Order returns a pending order view.
func (s *RestaurantFacadeStub) Order(ctx context.Context, id string) (*model.OrderView, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.OrderView{Order: model.Order{ID: id, Status: model.OrderStatusPending}, Load: model.KitchenLoadMedium}, nil
}

// Orders returns no orders unless overridden.
func (s *RestaurantFacadeStub) Orders(ctx context.Context, statuses []model.OrderStatus) ([]model.OrderView, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, statuses)
	}
	return []model.OrderView{}, nil
}

// UpdateOrderStatus returns the order in the requested status.
func (s *RestaurantFacadeStub) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status)
	}
	return &model.Order{ID: id, Status: status}, nil
}

// AdvanceOrder moves the order to preparing.
func (s *RestaurantFacadeStub) AdvanceOrder(ctx context.Context, id string) (*model.Order, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPreparing}, nil
}

// AcknowledgeOrder completes the order.
func (s *RestaurantFacadeStub) AcknowledgeOrder(ctx context.Context, id string) (*model.Order, error) {
	if s.AcknowledgeFn != nil {
		return s.AcknowledgeFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusCompleted}, nil
}

// ServeStatusStream answers 204 with the key in a header unless overridden.
func (s *RestaurantFacadeStub) ServeStatusStream(w http.ResponseWriter, r *http.Request, key string) {
	if s.StreamFn != nil {
		s.StreamFn(w, r, key)
		return
	}
	w.Header().Set("X-Stream-Key", key)
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard returns empty metrics unless overridden.
func (s *RestaurantFacadeStub) Dashboard(ctx context.Context) (*model.DashboardMetrics, error) {
	if s.DashboardFn != nil {
		return s.DashboardFn(ctx)
	}
	return &model.DashboardMetrics{StatusCounts: map[model.OrderStatus]int{}, KitchenLoad: model.KitchenLoadMedium}, nil
}

// KitchenLoad reports the stored load, medium by default.
func (s *RestaurantFacadeStub) KitchenLoad() (model.KitchenLoad, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.load == "" {
		return model.KitchenLoadMedium, s.pinned
	}
	return s.load, s.pinned
}

// SetKitchenLoad stores load. Unpinning keeps the current value.
func (s *RestaurantFacadeStub) SetKitchenLoad(load model.KitchenLoad, pinned bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = pinned
	if pinned {
		s.load = load
	}
}

// SubmitFeedback echoes feedback with an id.
func (s *RestaurantFacadeStub) SubmitFeedback(ctx context.Context, fb model.Feedback) (*model.Feedback, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, fb)
	}
	fb.ID = "fb"
	return &fb, nil
}

// Feedback returns no feedback unless overridden.
func (s *RestaurantFacadeStub) Feedback(ctx context.Context, limit int) ([]model.Feedback, error) {
	if s.FeedbackFn != nil {
		return s.FeedbackFn(ctx, limit)
	}
	return []model.Feedback{}, nil
}

// Health returns HealthErr.
func (s *RestaurantFacadeStub) Health(context.Context) error {
	return s.HealthErr
}

// KitchenFacadeStub mimics the order facade as seen by the auto advancer.
type KitchenFacadeStub struct {
	Batches   [][]model.Order
	ActiveFn  func(context.Context, int) ([]model.Order, error)
	AdvanceFn func(context.Context, model.Order) (bool, error)
	Advanced  []string
	Limits    []int

	mu        sync.Mutex
	callCount int32
	rolls     int32
}

// Lock exposes internal mutex for external synchronization.
func (s *KitchenFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *KitchenFacadeStub) Unlock() { s.mu.Unlock() }

// ActiveOrders returns configured batches in order, then nothing.
func (s *KitchenFacadeStub) ActiveOrders(ctx context.Context, limit int) ([]model.Order, error) {
	s.mu.Lock()
	s.Limits = append(s.Limits, limit)
	s.mu.Unlock()
	if s.ActiveFn != nil {
		return s.ActiveFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.callCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	return nil, nil
}

// AutoAdvance records the order id.
func (s *KitchenFacadeStub) AutoAdvance(ctx context.Context, order model.Order) (bool, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Advanced = append(s.Advanced, order.ID)
	return true, nil
}

// RollKitchenLoad counts calls.
func (s *KitchenFacadeStub) RollKitchenLoad() model.KitchenLoad {
	atomic.AddInt32(&s.rolls, 1)
	return model.KitchenLoadMedium
}

// Rolls returns how many times the load was rolled.
func (s *KitchenFacadeStub) Rolls() int {
	return int(atomic.LoadInt32(&s.rolls))
}

// UpdateSourceStub delivers fixed updates and then blocks until cancelled.
type UpdateSourceStub struct {
	Updates    []model.StatusUpdate
	ConsumeErr error

	mu         sync.Mutex
	handleErrs []error
}

// Consume hands every update to handle.
func (s *UpdateSourceStub) Consume(ctx context.Context, handle func(context.Context, model.StatusUpdate) error) error {
	if s.ConsumeErr != nil {
		return s.ConsumeErr
	}
	for _, u := range s.Updates {
		err := handle(ctx, u)
		s.mu.Lock()
		s.handleErrs = append(s.handleErrs, err)
		s.mu.Unlock()
	}
	<-ctx.Done()
	return ctx.Err()
}

// HandleErrors returns the results of every handled update.
func (s *UpdateSourceStub) HandleErrors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]error, len(s.handleErrs))
	copy(out, s.handleErrs)
	return out
}

// ExternalFacadeStub records applied updates.
type ExternalFacadeStub struct {
	Err error

	mu      sync.Mutex
	applied []model.StatusUpdate
}

// ApplyExternal stores update and returns Err.
func (s *ExternalFacadeStub) ApplyExternal(_ context.Context, update model.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, update)
	return s.Err
}

// Applied returns a copy of recorded updates.
func (s *ExternalFacadeStub) Applied() []model.StatusUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.StatusUpdate, len(s.applied))
	copy(out, s.applied)
	return out
}
