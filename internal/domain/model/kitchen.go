package model

import domainErrors "github.com/polkiloo/tableside/internal/domain/errors"

// KitchenLoad is a coarse signal of how busy the kitchen is.
type KitchenLoad string

const (
	KitchenLoadLow    KitchenLoad = "low"
	KitchenLoadMedium KitchenLoad = "medium"
	KitchenLoadHigh   KitchenLoad = "high"
)

// KitchenLoads lists loads in ascending order.
var KitchenLoads = []KitchenLoad{KitchenLoadLow, KitchenLoadMedium, KitchenLoadHigh}

// ParseKitchenLoad converts raw input into a known load.
func ParseKitchenLoad(raw string) (KitchenLoad, error) {
	switch l := KitchenLoad(raw); l {
	case KitchenLoadLow, KitchenLoadMedium, KitchenLoadHigh:
		return l, nil
	}
	return "", domainErrors.ErrInvalidKitchenLoad
}

// Message returns the customer facing description of the load.
func (l KitchenLoad) Message() string {
	switch l {
	case KitchenLoadHigh:
		return "Our kitchen is very busy right now. Thanks for your patience!"
	case KitchenLoadLow:
		return "Our kitchen is not busy. Your order will be ready soon!"
	default:
		return "Our kitchen is processing orders at a normal pace."
	}
}
