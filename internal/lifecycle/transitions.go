// Package lifecycle implements the order state machine, progress derivation
// and reconciliation of externally pushed status updates.
package lifecycle

import (
	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
)

var allowed = map[model.OrderStatus]model.OrderStatus{
	model.OrderStatusPending:   model.OrderStatusPreparing,
	model.OrderStatusPreparing: model.OrderStatusReady,
	model.OrderStatusReady:     model.OrderStatusCompleted,
}

// Next returns the single status reachable from s.
func Next(s model.OrderStatus) (model.OrderStatus, bool) {
	next, ok := allowed[s]
	return next, ok
}

// CanTransition reports whether from can move directly to to.
func CanTransition(from, to model.OrderStatus) bool {
	next, ok := allowed[from]
	return ok && next == to
}

// Validate checks a requested transition. Skips, regressions and any change
// of a completed order fail with ErrInvalidTransition.
func Validate(from, to model.OrderStatus) error {
	if _, err := model.ParseOrderStatus(string(to)); err != nil {
		return err
	}
	if !CanTransition(from, to) {
		return domainErrors.ErrInvalidTransition
	}
	return nil
}

// ValidateBy additionally enforces who may trigger the transition: the
// hand-off to completed needs an explicit acknowledgment, never a timer.
func ValidateBy(from, to model.OrderStatus, actor model.Actor) error {
	if err := Validate(from, to); err != nil {
		return err
	}
	if to == model.OrderStatusCompleted && actor == model.ActorTimer {
		return domainErrors.ErrInvalidTransition
	}
	return nil
}
