package test

import (
	"context"
	"sync"

	"github.com/polkiloo/tableside/internal/domain/model"
)

// NotifierStub records status and table notifications.
type NotifierStub struct {
	mu sync.Mutex

	Changes  []model.StatusChange
	Occupied []model.TableEvent
	Freed    []model.TableEvent

	StatusErr error
	TableErr  error
}

// StatusChanged records change.
func (n *NotifierStub) StatusChanged(_ context.Context, change model.StatusChange) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Changes = append(n.Changes, change)
	return n.StatusErr
}

// TableOccupied records event.
func (n *NotifierStub) TableOccupied(_ context.Context, event model.TableEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Occupied = append(n.Occupied, event)
	return n.TableErr
}

// TableFreed records event.
func (n *NotifierStub) TableFreed(_ context.Context, event model.TableEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Freed = append(n.Freed, event)
	return n.TableErr
}

// StatusChanges returns a copy of the recorded changes.
func (n *NotifierStub) StatusChanges() []model.StatusChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.StatusChange, len(n.Changes))
	copy(out, n.Changes)
	return out
}

// FreedTables returns a copy of the recorded table releases.
func (n *NotifierStub) FreedTables() []model.TableEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.TableEvent, len(n.Freed))
	copy(out, n.Freed)
	return out
}
