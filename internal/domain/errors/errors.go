package errors

import "errors"

var (
	ErrAlreadyExists          = errors.New("already exists")
	ErrNotFound               = errors.New("not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrOrderNotFound          = errors.New("order not found")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrMenuItemNotFound       = errors.New("menu item not found")
	ErrCartNotFound           = errors.New("cart not found")
	ErrEmptyOrder             = errors.New("order has no items")
	ErrInvalidTable           = errors.New("invalid table number")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrInvalidStatus          = errors.New("unknown order status")
	ErrInvalidFeedback        = errors.New("invalid feedback")
	ErrInvalidKitchenLoad     = errors.New("unknown kitchen load")
)
