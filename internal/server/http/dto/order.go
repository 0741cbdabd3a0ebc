package dto

import "github.com/polkiloo/tableside/internal/domain/model"

// LineItemRequest selects a menu item by id.
type LineItemRequest struct {
	ID       string `json:"id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest creates an order directly from a selection.
type PlaceOrderRequest struct {
	Items       []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	TableNumber int               `json:"tableNumber" binding:"required,min=1"`
}

// EstimateRequest asks for a preparation time.
type EstimateRequest struct {
	Items []LineItemRequest `json:"items" binding:"dive"`
}

// EstimateResponse is the estimated preparation time in minutes.
type EstimateResponse struct {
	EstimatedTime int `json:"estimatedTime"`
}

// StatusRequest asks for a specific status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ProgressResponse is the presentation state of an order.
type ProgressResponse struct {
	Percent          float64 `json:"percent"`
	MinutesRemaining int     `json:"minutesRemaining"`
	NextStepSeconds  int     `json:"nextStepSeconds"`
}

// OrderStatusResponse describes an order as shown on the status page.
type OrderStatusResponse struct {
	Order       model.Order      `json:"order"`
	Progress    ProgressResponse `json:"progress"`
	KitchenLoad string           `json:"kitchenLoad"`
	LoadMessage string           `json:"loadMessage"`
	Stale       bool             `json:"stale"`
}

// ToLineItems converts a selection into line items keyed by menu id.
func ToLineItems(items []LineItemRequest) []model.LineItem {
	out := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, model.LineItem{MenuItem: model.MenuItem{ID: item.ID}, Quantity: item.Quantity})
	}
	return out
}

// ToOrderStatus builds the status page representation of view.
func ToOrderStatus(view model.OrderView) OrderStatusResponse {
	return OrderStatusResponse{
		Order: view.Order,
		Progress: ProgressResponse{
			Percent:          view.Progress.Percent,
			MinutesRemaining: view.Progress.MinutesRemaining,
			NextStepSeconds:  int(view.Progress.NextStepIn.Seconds()),
		},
		KitchenLoad: string(view.Load),
		LoadMessage: view.Load.Message(),
		Stale:       view.Stale,
	}
}
