package app

import (
	"context"
	"errors"

	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/adapter/broker"
	"github.com/polkiloo/tableside/internal/adapter/tables"
	"github.com/polkiloo/tableside/internal/domain/model"
	"github.com/polkiloo/tableside/internal/server/stream"
	"github.com/polkiloo/tableside/internal/usecase"
)

// Notifier fans status and table events out to every configured sink.
type Notifier struct {
	statuses []usecase.StatusNotifier
	tables   []usecase.TableNotifier
}

type notifierParams struct {
	fx.In

	Hub    *stream.Hub
	Broker *broker.Broker     `optional:"true"`
	Tables *tables.HTTPClient `optional:"true"`
}

func newNotifier(p notifierParams) *Notifier {
	n := &Notifier{statuses: []usecase.StatusNotifier{p.Hub}}
	if p.Broker != nil {
		n.statuses = append(n.statuses, p.Broker)
		n.tables = append(n.tables, p.Broker)
	}
	if p.Tables != nil {
		n.tables = append(n.tables, p.Tables)
	}
	return n
}

// NewNotifier combines the given sinks.
func NewNotifier(statuses []usecase.StatusNotifier, tables []usecase.TableNotifier) *Notifier {
	return &Notifier{statuses: statuses, tables: tables}
}

// StatusChanged delivers change to every status sink.
func (n *Notifier) StatusChanged(ctx context.Context, change model.StatusChange) error {
	var errs []error
	for _, s := range n.statuses {
		if err := s.StatusChanged(ctx, change); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TableOccupied delivers event to every table sink.
func (n *Notifier) TableOccupied(ctx context.Context, event model.TableEvent) error {
	var errs []error
	for _, t := range n.tables {
		if err := t.TableOccupied(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TableFreed delivers event to every table sink.
func (n *Notifier) TableFreed(ctx context.Context, event model.TableEvent) error {
	var errs []error
	for _, t := range n.tables {
		if err := t.TableFreed(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
