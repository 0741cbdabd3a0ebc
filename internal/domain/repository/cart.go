package repository

import (
	"context"

	"github.com/polkiloo/tableside/internal/domain/model"
)

// CartRepository stores carts under construction.
type CartRepository interface {
	Save(ctx context.Context, cart model.Cart) error
	Get(ctx context.Context, id string) (*model.Cart, error)
}
