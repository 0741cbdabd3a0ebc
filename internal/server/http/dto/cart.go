package dto

// AddItemRequest puts a menu item into a cart.
type AddItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity"`
}

// QuantityRequest sets the quantity of a cart line.
type QuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// TableRequest assigns a table to a cart.
type TableRequest struct {
	TableNumber int `json:"tableNumber" binding:"required"`
}
