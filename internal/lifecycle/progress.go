package lifecycle

import (
	"time"

	"github.com/polkiloo/tableside/internal/domain/model"
)

const (
	pendingBaseline   = 10.0
	preparingBaseline = 40.0
	donePercent       = 100.0

	highLoadExtraMinutes = 5
	highLoadCeiling      = 25
	lowLoadCutMinutes    = 3
	lowLoadFloor         = 10
)

// DeriveProgress maps the order state at now to a progress percentage and a
// countdown in minutes.
func DeriveProgress(order model.Order, now time.Time, timings Timings, load model.KitchenLoad) model.Progress {
	switch order.Status {
	case model.OrderStatusReady, model.OrderStatusCompleted:
		return model.Progress{Percent: donePercent}
	case model.OrderStatusPending, model.OrderStatusPreparing:
	default:
		return model.Progress{}
	}

	dwell := timings.For(order.Status)
	remaining := dwell - now.Sub(order.StatusChangedAt)
	if remaining < 0 {
		remaining = 0
	}
	if remaining > dwell {
		remaining = dwell
	}

	decayed := 1.0
	if dwell > 0 {
		decayed = 1 - float64(remaining)/float64(dwell)
	}

	from, to := pendingBaseline, preparingBaseline
	if order.Status == model.OrderStatusPreparing {
		from, to = preparingBaseline, donePercent
	}

	return model.Progress{
		Percent:          from + (to-from)*decayed,
		MinutesRemaining: AdjustForLoad(minutesLeft(order, now), load),
		NextStepIn:       remaining,
	}
}

func minutesLeft(order model.Order, now time.Time) int {
	elapsed := int(now.Sub(order.CreatedAt) / time.Minute)
	if elapsed < 0 {
		elapsed = 0
	}
	left := order.EstimatedTime - elapsed
	if left < 0 {
		return 0
	}
	return left
}

// AdjustForLoad stretches or compresses remaining minutes by kitchen load.
// High load adds up to five minutes without passing 25, low load removes up
// to three minutes without going under 10. Values already beyond those
// bounds are left alone and the result is never negative.
func AdjustForLoad(minutes int, load model.KitchenLoad) int {
	if minutes < 0 {
		return 0
	}
	switch load {
	case model.KitchenLoadHigh:
		if minutes < highLoadCeiling {
			minutes = min(highLoadCeiling, minutes+highLoadExtraMinutes)
		}
	case model.KitchenLoadLow:
		if minutes > lowLoadFloor {
			minutes = max(lowLoadFloor, minutes-lowLoadCutMinutes)
		}
	}
	return minutes
}
