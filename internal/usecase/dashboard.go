package usecase

import (
	"context"
	"math"

	"github.com/polkiloo/tableside/internal/domain/model"
	"github.com/polkiloo/tableside/internal/estimator"
)

const dashboardPopularItems = 3

// DashboardUseCase aggregates order metrics for staff.
type DashboardUseCase struct {
	orders *OrderUseCase
	menu   *MenuUseCase
}

// NewDashboardUseCase constructs DashboardUseCase.
func NewDashboardUseCase(orders *OrderUseCase, menu *MenuUseCase) *DashboardUseCase {
	return &DashboardUseCase{orders: orders, menu: menu}
}

// Metrics summarizes every known order.
func (u *DashboardUseCase) Metrics(ctx context.Context) (*model.DashboardMetrics, error) {
	views, err := u.orders.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	load, _ := u.orders.KitchenLoad()
	metrics := &model.DashboardMetrics{
		TotalOrders:  len(views),
		StatusCounts: make(map[model.OrderStatus]int, 4),
		PopularItems: u.menu.Popular(dashboardPopularItems),
		KitchenLoad:  load,
	}
	for _, s := range []model.OrderStatus{model.OrderStatusPending, model.OrderStatusPreparing, model.OrderStatusReady, model.OrderStatusCompleted} {
		metrics.StatusCounts[s] = 0
	}

	var revenue float64
	var minutes int
	for _, v := range views {
		revenue += v.Order.Total
		minutes += v.Order.EstimatedTime
		metrics.StatusCounts[v.Order.Status]++
		metrics.Stale = metrics.Stale || v.Stale
	}
	metrics.TotalRevenue = estimator.RoundMoney(revenue)
	metrics.AveragePreparationTime = int(math.Round(float64(minutes) / float64(max(1, len(views)))))
	return metrics, nil
}
