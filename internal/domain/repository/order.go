package repository

import (
	"context"
	"time"

	"github.com/polkiloo/tableside/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order model.Order) error
	Get(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, statuses []model.OrderStatus, limit int) ([]model.Order, error)
	// UpdateStatus moves the order from one status to another. It fails with
	// ErrInvalidTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus, at time.Time) (*model.Order, error)
	// Save overwrites the mutable state of an existing order. A write that
	// would move the stored status backwards, or that is older than the stored
	// UpdatedAt within the same status, is dropped with ErrInvalidTransition.
	Save(ctx context.Context, order model.Order) error
}

// SnapshotCache keeps the last known state of orders for offline reads.
type SnapshotCache interface {
	Save(ctx context.Context, order model.Order) error
	Get(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error)
}
