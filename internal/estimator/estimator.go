// Package estimator computes preparation time and money totals for line items.
package estimator

import (
	"math"

	"github.com/polkiloo/tableside/internal/domain/model"
)

const (
	additionalUnitShare   = 0.4
	categoryStep          = 0.1
	minCategoryFactor     = 0.6
	orderSizeStep         = 0.03
	maxOrderSizeFactor    = 1.3
	complexityStepDivisor = 10.0
	serviceFeeRate        = 0.05
)

// Estimate returns the expected preparation time in minutes. Line items with a
// non-positive quantity are ignored.
func Estimate(items []model.LineItem) int {
	var (
		total      float64
		itemCount  int
		categories = make(map[string]struct{})
	)

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		adjusted := AdjustedTime(item.MenuItem)
		total += adjusted + float64(item.Quantity-1)*adjusted*additionalUnitShare
		itemCount += item.Quantity
		categories[item.Category] = struct{}{}
	}

	if itemCount == 0 {
		return 0
	}

	estimate := math.Round(total * CategoryFactor(len(categories)) * SizeFactor(itemCount))
	if estimate < 0 {
		return 0
	}
	return int(estimate)
}

// AdjustedTime scales the base preparation time of one unit by its complexity.
func AdjustedTime(item model.MenuItem) float64 {
	complexity := float64(item.EffectiveComplexity())
	return float64(item.PreparationTime) * (1 + (complexity-model.DefaultComplexity)/complexityStepDivisor)
}

// CategoryFactor models parallel kitchen stations. It never drops below 0.6.
func CategoryFactor(uniqueCategories int) float64 {
	if uniqueCategories <= 1 {
		return 1
	}
	return math.Max(minCategoryFactor, 1-float64(uniqueCategories-1)*categoryStep)
}

// SizeFactor grows slightly with the number of units, capped at 1.3.
func SizeFactor(totalItems int) float64 {
	if totalItems <= 1 {
		return 1
	}
	return math.Min(maxOrderSizeFactor, 1+float64(totalItems-1)*orderSizeStep)
}

// Total sums price times quantity, rounded to cents.
func Total(items []model.LineItem) float64 {
	var sum float64
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		sum += item.Price * float64(item.Quantity)
	}
	return RoundMoney(sum)
}

// ServiceFee returns the service charge added at checkout.
func ServiceFee(subtotal float64) float64 {
	return RoundMoney(subtotal * serviceFeeRate)
}

// ItemCount returns the number of units across line items.
func ItemCount(items []model.LineItem) int {
	var n int
	for _, item := range items {
		if item.Quantity > 0 {
			n += item.Quantity
		}
	}
	return n
}

// RoundMoney rounds to two decimal places.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
