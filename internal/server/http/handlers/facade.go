package handlers

import (
	"context"
	"net/http"

	"github.com/polkiloo/tableside/internal/domain/model"
	pkgAuth "github.com/polkiloo/tableside/internal/pkg/auth"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (pkgAuth.Identity, error)
}

// MenuFacade serves the catalog.
type MenuFacade interface {
	Menu(category, query string) []model.MenuItem
	Categories() []string
	MenuItem(id string) (*model.MenuItem, error)
	Recommendations(id string) ([]model.MenuItem, error)
	Estimate(items []model.LineItem) (int, error)
}

// CartFacade manages carts before checkout.
type CartFacade interface {
	CreateCart(ctx context.Context) (*model.CartSummary, error)
	Cart(ctx context.Context, id string) (*model.CartSummary, error)
	ClearCart(ctx context.Context, id string) (*model.CartSummary, error)
	AddCartItem(ctx context.Context, id, itemID string, quantity int) (*model.CartSummary, error)
	UpdateCartItem(ctx context.Context, id, itemID string, quantity int) (*model.CartSummary, error)
	RemoveCartItem(ctx context.Context, id, itemID string) (*model.CartSummary, error)
	SetCartTable(ctx context.Context, id string, tableNumber int) (*model.CartSummary, error)
	Payment(ctx context.Context, id string) (*model.Payment, error)
	Checkout(ctx context.Context, id string) (*model.Order, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, items []model.LineItem, tableNumber int) (*model.Order, error)
	Order(ctx context.Context, id string) (*model.OrderView, error)
	Orders(ctx context.Context, statuses []model.OrderStatus) ([]model.OrderView, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	AdvanceOrder(ctx context.Context, id string) (*model.Order, error)
	AcknowledgeOrder(ctx context.Context, id string) (*model.Order, error)
	ServeStatusStream(w http.ResponseWriter, r *http.Request, key string)
}

// StaffFacade provides dashboard, kitchen and feedback operations.
type StaffFacade interface {
	Dashboard(ctx context.Context) (*model.DashboardMetrics, error)
	KitchenLoad() (model.KitchenLoad, bool)
	SetKitchenLoad(load model.KitchenLoad, pinned bool)
	SubmitFeedback(ctx context.Context, fb model.Feedback) (*model.Feedback, error)
	Feedback(ctx context.Context, limit int) ([]model.Feedback, error)
	Health(ctx context.Context) error
}

// RestaurantFacade aggregates the full set of operations used across handlers.
type RestaurantFacade interface {
	AuthFacade
	MenuFacade
	CartFacade
	OrderFacade
	StaffFacade
}
