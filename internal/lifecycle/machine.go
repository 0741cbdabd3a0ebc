package lifecycle

import (
	"time"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
)

// Machine applies transitions to order snapshots. It holds no order state.
type Machine struct {
	clock      Clock
	thresholds Thresholds
}

// NewMachine builds a Machine using clock for every timestamp it produces.
func NewMachine(clock Clock, thresholds Thresholds) *Machine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Machine{clock: clock, thresholds: thresholds}
}

// Now returns the machine clock reading.
func (m *Machine) Now() time.Time {
	return m.clock.Now()
}

// Thresholds exposes the configured dwell times.
func (m *Machine) Thresholds() Thresholds {
	return m.thresholds
}

// Transition moves order to status to on behalf of actor. The input is never
// modified; on error the zero change is returned alongside the original order.
func (m *Machine) Transition(order model.Order, to model.OrderStatus, actor model.Actor) (model.Order, model.StatusChange, error) {
	if order.Status.Terminal() {
		return order, model.StatusChange{}, domainErrors.ErrOrderNotFound
	}
	if err := ValidateBy(order.Status, to, actor); err != nil {
		return order, model.StatusChange{}, err
	}

	now := m.clock.Now()
	updated := order
	updated.Status = to
	updated.StatusChangedAt = now
	updated.UpdatedAt = now

	return updated, ChangeOf(order, updated, actor), nil
}

// Due reports the status the elapsed-time rule would move order to at load.
// Only pending and preparing orders advance on their own.
func (m *Machine) Due(order model.Order, load model.KitchenLoad) (model.OrderStatus, bool) {
	if !order.Status.Active() {
		return "", false
	}
	dwell := m.thresholds.For(load).For(order.Status)
	if m.clock.Now().Sub(order.StatusChangedAt) < dwell {
		return "", false
	}
	return Next(order.Status)
}

// Progress derives the progress of order at the current time.
func (m *Machine) Progress(order model.Order, load model.KitchenLoad) model.Progress {
	return DeriveProgress(order, m.clock.Now(), m.thresholds.For(load), load)
}

// ChangeOf describes the move from before to after.
func ChangeOf(before, after model.Order, actor model.Actor) model.StatusChange {
	return model.StatusChange{
		OrderID:       after.ID,
		TableNumber:   after.TableNumber,
		OldStatus:     before.Status,
		NewStatus:     after.Status,
		EstimatedTime: after.EstimatedTime,
		ChangedBy:     actor,
		Timestamp:     after.UpdatedAt,
	}
}
