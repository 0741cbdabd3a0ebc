package usecase

import "github.com/google/uuid"

// IDGenerator produces identifiers for new carts, orders and feedback.
type IDGenerator func() string

// NewUUID returns a random UUID string.
func NewUUID() string {
	return uuid.NewString()
}
