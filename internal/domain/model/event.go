package model

import "time"

// Actor identifies who triggered a status change.
type Actor string

const (
	ActorStaff    Actor = "staff"
	ActorCustomer Actor = "customer"
	ActorTimer    Actor = "timer"
	ActorExternal Actor = "external"
)

// StatusChange is emitted after every successful transition.
type StatusChange struct {
	OrderID       string      `json:"order_id"`
	TableNumber   int         `json:"table_number"`
	OldStatus     OrderStatus `json:"old_status,omitempty"`
	NewStatus     OrderStatus `json:"new_status"`
	EstimatedTime int         `json:"estimated_time"`
	ChangedBy     Actor       `json:"changed_by"`
	Timestamp     time.Time   `json:"timestamp"`
}

// StatusUpdate is a status pushed by the external store.
type StatusUpdate struct {
	OrderID       string      `json:"order_id"`
	Status        OrderStatus `json:"status"`
	EstimatedTime *int        `json:"estimated_time,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableEvent signals table occupancy to the table management service.
type TableEvent struct {
	TableNumber int       `json:"table_number"`
	Occupied    bool      `json:"occupied"`
	OrderID     string    `json:"order_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
