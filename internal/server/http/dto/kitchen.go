package dto

// KitchenLoadRequest pins or releases the kitchen load.
type KitchenLoadRequest struct {
	Load   string `json:"load"`
	Pinned *bool  `json:"pinned"`
}

// KitchenLoadResponse reports the current kitchen load.
type KitchenLoadResponse struct {
	Load    string `json:"load"`
	Pinned  bool   `json:"pinned"`
	Message string `json:"message"`
}
