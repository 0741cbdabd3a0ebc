package memory

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
)

// CartRepository keeps carts in process memory. Carts are short lived and
// only become durable once checked out as orders.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]model.Cart
}

func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string]model.Cart)}
}

func (r *CartRepository) Save(_ context.Context, cart model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.ID] = clone(cart)
	return nil
}

func (r *CartRepository) Get(_ context.Context, id string) (*model.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[id]
	if !ok {
		return nil, domainErrors.ErrCartNotFound
	}
	c := clone(cart)
	return &c, nil
}

func clone(cart model.Cart) model.Cart {
	items := make([]model.LineItem, len(cart.Items))
	copy(items, cart.Items)
	cart.Items = items
	return cart
}
