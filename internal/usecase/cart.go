package usecase

import (
	"context"
	"fmt"
	"net/url"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
	"github.com/polkiloo/tableside/internal/domain/repository"
	"github.com/polkiloo/tableside/internal/estimator"
)

const (
	defaultTableNumber = 1
	qrEndpoint         = "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data="
)

// PaymentSettings identify the UPI payee shown to customers.
type PaymentSettings struct {
	Payee    string
	Merchant string
}

// CartUseCase builds orders before they are placed.
type CartUseCase struct {
	carts   repository.CartRepository
	menu    repository.MenuRepository
	orders  *OrderUseCase
	payment PaymentSettings
	ids     IDGenerator
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, menu repository.MenuRepository, orders *OrderUseCase, payment PaymentSettings) *CartUseCase {
	return &CartUseCase{carts: carts, menu: menu, orders: orders, payment: payment, ids: NewUUID}
}

// Create opens an empty cart for table 1.
func (u *CartUseCase) Create(ctx context.Context) (*model.CartSummary, error) {
	cart := model.Cart{ID: u.ids(), Items: []model.LineItem{}, TableNumber: defaultTableNumber}
	if err := u.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return summarize(cart), nil
}

// Get returns the cart with its totals.
func (u *CartUseCase) Get(ctx context.Context, id string) (*model.CartSummary, error) {
	cart, err := u.carts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return summarize(*cart), nil
}

// AddItem puts quantity units of a menu item into the cart. Adding an item
// that is already present increases its quantity.
func (u *CartUseCase) AddItem(ctx context.Context, id, itemID string, quantity int) (*model.CartSummary, error) {
	if quantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	return u.modify(ctx, id, func(cart *model.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items[i].Quantity += quantity
				return nil
			}
		}
		item, err := u.menu.Get(itemID)
		if err != nil {
			return err
		}
		cart.Items = append(cart.Items, model.LineItem{MenuItem: *item, Quantity: quantity})
		return nil
	})
}

// RemoveItem drops a menu item from the cart. Missing items are ignored.
func (u *CartUseCase) RemoveItem(ctx context.Context, id, itemID string) (*model.CartSummary, error) {
	return u.modify(ctx, id, func(cart *model.Cart) error {
		cart.Items = without(cart.Items, itemID)
		return nil
	})
}

// UpdateQuantity sets the quantity of an item in the cart. A non-positive
// quantity removes the item.
func (u *CartUseCase) UpdateQuantity(ctx context.Context, id, itemID string, quantity int) (*model.CartSummary, error) {
	return u.modify(ctx, id, func(cart *model.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ID != itemID {
				continue
			}
			if quantity <= 0 {
				cart.Items = without(cart.Items, itemID)
			} else {
				cart.Items[i].Quantity = quantity
			}
			return nil
		}
		return domainErrors.ErrMenuItemNotFound
	})
}

// Clear empties the cart and keeps its table.
func (u *CartUseCase) Clear(ctx context.Context, id string) (*model.CartSummary, error) {
	return u.modify(ctx, id, func(cart *model.Cart) error {
		cart.Items = []model.LineItem{}
		return nil
	})
}

// SetTable assigns the table the order will be served to.
func (u *CartUseCase) SetTable(ctx context.Context, id string, tableNumber int) (*model.CartSummary, error) {
	if tableNumber <= 0 {
		return nil, domainErrors.ErrInvalidTable
	}
	return u.modify(ctx, id, func(cart *model.Cart) error {
		cart.TableNumber = tableNumber
		return nil
	})
}

// Payment builds the simulated UPI request for the cart grand total.
func (u *CartUseCase) Payment(ctx context.Context, id string) (*model.Payment, error) {
	summary, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, domainErrors.ErrEmptyOrder
	}

	link := upiLink(u.payment, summary.Total)
	return &model.Payment{
		Amount: summary.Total,
		UPIURL: link,
		QRURL:  qrEndpoint + url.QueryEscape(link),
		Payee:  u.payment.Payee,
		Name:   u.payment.Merchant,
	}, nil
}

// Checkout places an order from the cart once payment completed and then
// empties the cart.
func (u *CartUseCase) Checkout(ctx context.Context, id string) (*model.Order, error) {
	cart, err := u.carts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domainErrors.ErrEmptyOrder
	}

	order, err := u.orders.Create(ctx, cart.Items, cart.TableNumber)
	if err != nil {
		return nil, err
	}

	cart.Items = []model.LineItem{}
	if err := u.carts.Save(ctx, *cart); err != nil {
		return nil, err
	}
	return order, nil
}

func (u *CartUseCase) modify(ctx context.Context, id string, fn func(*model.Cart) error) (*model.CartSummary, error) {
	cart, err := u.carts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	if err := u.carts.Save(ctx, *cart); err != nil {
		return nil, err
	}
	return summarize(*cart), nil
}

func summarize(cart model.Cart) *model.CartSummary {
	subtotal := estimator.Total(cart.Items)
	fee := estimator.ServiceFee(subtotal)
	return &model.CartSummary{
		Cart:          cart,
		ItemCount:     estimator.ItemCount(cart.Items),
		Subtotal:      subtotal,
		ServiceFee:    fee,
		Total:         estimator.RoundMoney(subtotal + fee),
		EstimatedTime: estimator.Estimate(cart.Items),
	}
}

func without(items []model.LineItem, itemID string) []model.LineItem {
	kept := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	return kept
}

func upiLink(p PaymentSettings, amount float64) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f&cu=INR&tn=FoodOrder",
		url.PathEscape(p.Payee), url.PathEscape(p.Merchant), amount)
}
