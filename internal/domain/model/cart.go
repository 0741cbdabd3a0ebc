package model

// Cart is an order under construction.
type Cart struct {
	ID          string     `json:"id"`
	Items       []LineItem `json:"items"`
	TableNumber int        `json:"tableNumber"`
}

// CartSummary is a cart with its derived totals.
type CartSummary struct {
	Cart
	ItemCount     int     `json:"itemCount"`
	Subtotal      float64 `json:"subtotal"`
	ServiceFee    float64 `json:"serviceFee"`
	Total         float64 `json:"total"`
	EstimatedTime int     `json:"estimatedTime"`
}

// Payment describes a simulated UPI payment request.
type Payment struct {
	Amount float64 `json:"amount"`
	UPIURL string  `json:"upiUrl"`
	QRURL  string  `json:"qrUrl"`
	Payee  string  `json:"payee"`
	Name   string  `json:"merchant"`
}
