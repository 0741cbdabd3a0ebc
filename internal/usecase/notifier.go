package usecase

import (
	"context"

	"github.com/polkiloo/tableside/internal/domain/model"
)

// StatusNotifier receives every successful status transition.
type StatusNotifier interface {
	StatusChanged(ctx context.Context, change model.StatusChange) error
}

// TableNotifier tells the table management side when a table is taken or released.
type TableNotifier interface {
	TableOccupied(ctx context.Context, event model.TableEvent) error
	TableFreed(ctx context.Context, event model.TableEvent) error
}
