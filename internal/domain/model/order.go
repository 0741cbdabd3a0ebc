package model

import (
	"time"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
)

// OrderStatus describes the kitchen lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
)

// ParseOrderStatus converts raw input into a known status.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch s := OrderStatus(raw); s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted:
		return s, nil
	}
	return "", domainErrors.ErrInvalidStatus
}

// Rank orders statuses along the lifecycle. Unknown statuses rank below pending.
func (s OrderStatus) Rank() int {
	switch s {
	case OrderStatusPending:
		return 1
	case OrderStatusPreparing:
		return 2
	case OrderStatusReady:
		return 3
	case OrderStatusCompleted:
		return 4
	default:
		return 0
	}
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted
}

// Active reports whether the kitchen still works on the order.
func (s OrderStatus) Active() bool {
	return s == OrderStatusPending || s == OrderStatusPreparing
}

// LineItem is a menu item with an ordered quantity.
type LineItem struct {
	MenuItem
	Quantity int `json:"quantity"`
}

// Order is a placed order.
type Order struct {
	ID              string      `json:"id"`
	Items           []LineItem  `json:"items"`
	Status          OrderStatus `json:"status"`
	TableNumber     int         `json:"tableNumber"`
	Total           float64     `json:"total"`
	CreatedAt       time.Time   `json:"timestamp"`
	EstimatedTime   int         `json:"estimatedTime"`
	StatusChangedAt time.Time   `json:"statusChangedAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Progress is the derived presentation state of an order.
type Progress struct {
	Percent          float64       `json:"percent"`
	MinutesRemaining int           `json:"minutesRemaining"`
	NextStepIn       time.Duration `json:"-"`
}

// OrderView couples an order with its progress and freshness.
type OrderView struct {
	Order    Order       `json:"order"`
	Progress Progress    `json:"progress"`
	Load     KitchenLoad `json:"kitchenLoad"`
	Stale    bool        `json:"stale"`
}
