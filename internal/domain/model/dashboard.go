package model

// DashboardMetrics summarizes orders for staff.
type DashboardMetrics struct {
	TotalOrders            int                 `json:"totalOrders"`
	TotalRevenue           float64             `json:"totalRevenue"`
	AveragePreparationTime int                 `json:"averagePreparationTime"`
	StatusCounts           map[OrderStatus]int `json:"statusCounts"`
	PopularItems           []MenuItem          `json:"popularItems"`
	KitchenLoad            KitchenLoad         `json:"kitchenLoad"`
	Stale                  bool                `json:"stale"`
}
