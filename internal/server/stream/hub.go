package stream

import (
	"context"
	"log/slog"
	"sync"

	"github.com/polkiloo/tableside/internal/domain/model"
)

// AllOrders subscribes to changes of every order.
const AllOrders = "*"

const defaultBuffer = 16

type subscription struct {
	key  string
	ch   chan model.StatusChange
	once sync.Once
}

// Hub fans status changes out to in-process subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscription]struct{}
	buffer int
	logger *slog.Logger
	closed bool
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*subscription]struct{}),
		buffer: defaultBuffer,
		logger: logger,
	}
}

// Subscribe registers for changes of one order, or of all orders with AllOrders.
// The returned cancel func closes the channel and may be called more than once.
func (h *Hub) Subscribe(key string) (<-chan model.StatusChange, func()) {
	sub := &subscription{key: key, ch: make(chan model.StatusChange, h.buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	if h.subs[key] == nil {
		h.subs[key] = make(map[*subscription]struct{})
	}
	h.subs[key][sub] = struct{}{}
	h.mu.Unlock()

	return sub.ch, func() { h.remove(sub) }
}

func (h *Hub) remove(sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.key]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.key)
		}
	}
	sub.once.Do(func() { close(sub.ch) })
}

// StatusChanged delivers the change to subscribers of the order and to
// wildcard subscribers. Slow subscribers miss events rather than block.
func (h *Hub) StatusChanged(_ context.Context, change model.StatusChange) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, key := range []string{change.OrderID, AllOrders} {
		for sub := range h.subs[key] {
			select {
			case sub.ch <- change:
			default:
				h.logger.Warn("stream subscriber lagging, event dropped",
					slog.String("subscription", key),
					slog.String("order_id", change.OrderID),
				)
			}
		}
	}
	return nil
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}

// Close ends every subscription. Later subscriptions are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for key, set := range h.subs {
		for sub := range set {
			sub.once.Do(func() { close(sub.ch) })
		}
		delete(h.subs, key)
	}
}
