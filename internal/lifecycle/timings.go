package lifecycle

import (
	"time"

	"github.com/polkiloo/tableside/internal/domain/model"
)

const (
	defaultPendingThreshold   = 8 * time.Second
	defaultPreparingThreshold = 12 * time.Second
)

// Timings holds how long an order stays in each active status.
type Timings struct {
	Pending   time.Duration
	Preparing time.Duration
}

// For returns the dwell time of status. Ready and completed have none.
func (t Timings) For(status model.OrderStatus) time.Duration {
	switch status {
	case model.OrderStatusPending:
		return t.Pending
	case model.OrderStatusPreparing:
		return t.Preparing
	default:
		return 0
	}
}

// Thresholds maps kitchen load to dwell times.
type Thresholds struct {
	Low    Timings
	Medium Timings
	High   Timings
}

// NewThresholds derives load specific timings from the medium load base.
// High load stretches pending by 1.5x and preparing by 5/3, low load
// compresses both to 3/4.
func NewThresholds(pending, preparing time.Duration) Thresholds {
	if pending <= 0 {
		pending = defaultPendingThreshold
	}
	if preparing <= 0 {
		preparing = defaultPreparingThreshold
	}
	return Thresholds{
		Low:    Timings{Pending: pending * 3 / 4, Preparing: preparing * 3 / 4},
		Medium: Timings{Pending: pending, Preparing: preparing},
		High:   Timings{Pending: pending * 3 / 2, Preparing: preparing * 5 / 3},
	}
}

// DefaultThresholds returns 8s/12s at medium, 6s/9s at low and 12s/20s at high load.
func DefaultThresholds() Thresholds {
	return NewThresholds(defaultPendingThreshold, defaultPreparingThreshold)
}

// For returns timings for load. Unknown loads use medium.
func (t Thresholds) For(load model.KitchenLoad) Timings {
	switch load {
	case model.KitchenLoadLow:
		return t.Low
	case model.KitchenLoadHigh:
		return t.High
	default:
		return t.Medium
	}
}
