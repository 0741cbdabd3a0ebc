package app

import (
	"context"
	"net/http"

	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/domain/model"
	pkgAuth "github.com/polkiloo/tableside/internal/pkg/auth"
	"github.com/polkiloo/tableside/internal/usecase"
)

// StatusStream serves live status changes to a websocket client.
type StatusStream interface {
	Serve(w http.ResponseWriter, r *http.Request, key string)
}

// HealthChecker verifies that the order store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// FacadeParams lists the collaborators of RestaurantFacade.
type FacadeParams struct {
	fx.In

	Auth      *usecase.AuthUseCase
	Orders    *usecase.OrderUseCase
	Carts     *usecase.CartUseCase
	Menu      *usecase.MenuUseCase
	Dashboard *usecase.DashboardUseCase
	Feedback  *usecase.FeedbackUseCase
	Stream    StatusStream
	Health    HealthChecker `optional:"true"`
}

// RestaurantFacade is the single entry point used by HTTP handlers and
// background workers.
type RestaurantFacade struct {
	auth      *usecase.AuthUseCase
	orders    *usecase.OrderUseCase
	carts     *usecase.CartUseCase
	menu      *usecase.MenuUseCase
	dashboard *usecase.DashboardUseCase
	feedback  *usecase.FeedbackUseCase
	stream    StatusStream
	health    HealthChecker
}

func NewRestaurantFacade(p FacadeParams) *RestaurantFacade {
	return &RestaurantFacade{
		auth:      p.Auth,
		orders:    p.Orders,
		carts:     p.Carts,
		menu:      p.Menu,
		dashboard: p.Dashboard,
		feedback:  p.Feedback,
		stream:    p.Stream,
		health:    p.Health,
	}
}

func (f *RestaurantFacade) Login(ctx context.Context, login, password string) (string, error) {
	return f.auth.Login(ctx, login, password)
}

func (f *RestaurantFacade) ParseToken(token string) (pkgAuth.Identity, error) {
	return f.auth.ParseToken(token)
}

func (f *RestaurantFacade) Menu(category, query string) []model.MenuItem {
	return f.menu.List(category, query)
}

func (f *RestaurantFacade) Categories() []string {
	return f.menu.Categories()
}

func (f *RestaurantFacade) MenuItem(id string) (*model.MenuItem, error) {
	return f.menu.Get(id)
}

func (f *RestaurantFacade) Recommendations(id string) ([]model.MenuItem, error) {
	return f.menu.Recommendations(id)
}

func (f *RestaurantFacade) Estimate(items []model.LineItem) (int, error) {
	return f.orders.Estimate(items)
}

func (f *RestaurantFacade) CreateCart(ctx context.Context) (*model.CartSummary, error) {
	return f.carts.Create(ctx)
}

func (f *RestaurantFacade) Cart(ctx context.Context, id string) (*model.CartSummary, error) {
	return f.carts.Get(ctx, id)
}

func (f *RestaurantFacade) ClearCart(ctx context.Context, id string) (*model.CartSummary, error) {
	return f.carts.Clear(ctx, id)
}

func (f *RestaurantFacade) AddCartItem(ctx context.Context, id, itemID string, quantity int) (*model.CartSummary, error) {
	return f.carts.AddItem(ctx, id, itemID, quantity)
}

func (f *RestaurantFacade) UpdateCartItem(ctx context.Context, id, itemID string, quantity int) (*model.CartSummary, error) {
	return f.carts.UpdateQuantity(ctx, id, itemID, quantity)
}

func (f *RestaurantFacade) RemoveCartItem(ctx context.Context, id, itemID string) (*model.CartSummary, error) {
	return f.carts.RemoveItem(ctx, id, itemID)
}

func (f *RestaurantFacade) SetCartTable(ctx context.Context, id string, tableNumber int) (*model.CartSummary, error) {
	return f.carts.SetTable(ctx, id, tableNumber)
}

func (f *RestaurantFacade) Payment(ctx context.Context, id string) (*model.Payment, error) {
	return f.carts.Payment(ctx, id)
}

func (f *RestaurantFacade) Checkout(ctx context.Context, id string) (*model.Order, error) {
	return f.carts.Checkout(ctx, id)
}

func (f *RestaurantFacade) PlaceOrder(ctx context.Context, items []model.LineItem, tableNumber int) (*model.Order, error) {
	return f.orders.Create(ctx, items, tableNumber)
}

func (f *RestaurantFacade) Order(ctx context.Context, id string) (*model.OrderView, error) {
	return f.orders.Get(ctx, id)
}

func (f *RestaurantFacade) Orders(ctx context.Context, statuses []model.OrderStatus) ([]model.OrderView, error) {
	return f.orders.List(ctx, statuses)
}

func (f *RestaurantFacade) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, id, status, model.ActorStaff)
}

func (f *RestaurantFacade) AdvanceOrder(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Advance(ctx, id)
}

func (f *RestaurantFacade) AcknowledgeOrder(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Acknowledge(ctx, id)
}

func (f *RestaurantFacade) ServeStatusStream(w http.ResponseWriter, r *http.Request, key string) {
	f.stream.Serve(w, r, key)
}

func (f *RestaurantFacade) Dashboard(ctx context.Context) (*model.DashboardMetrics, error) {
	return f.dashboard.Metrics(ctx)
}

func (f *RestaurantFacade) KitchenLoad() (model.KitchenLoad, bool) {
	return f.orders.KitchenLoad()
}

// SetKitchenLoad pins load, or hands the load back to the simulation when
// pinned is false.
func (f *RestaurantFacade) SetKitchenLoad(load model.KitchenLoad, pinned bool) {
	if !pinned {
		f.orders.ReleaseKitchenLoad()
		return
	}
	f.orders.PinKitchenLoad(load)
}

func (f *RestaurantFacade) SubmitFeedback(ctx context.Context, fb model.Feedback) (*model.Feedback, error) {
	return f.feedback.Submit(ctx, fb)
}

func (f *RestaurantFacade) Feedback(ctx context.Context, limit int) ([]model.Feedback, error) {
	return f.feedback.List(ctx, limit)
}

func (f *RestaurantFacade) Health(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}

func (f *RestaurantFacade) ActiveOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.ActiveOrders(ctx, limit)
}

func (f *RestaurantFacade) AutoAdvance(ctx context.Context, order model.Order) (bool, error) {
	return f.orders.AutoAdvance(ctx, order)
}

func (f *RestaurantFacade) RollKitchenLoad() model.KitchenLoad {
	return f.orders.RollKitchenLoad()
}

func (f *RestaurantFacade) ApplyExternal(ctx context.Context, update model.StatusUpdate) error {
	return f.orders.ApplyExternal(ctx, update)
}
