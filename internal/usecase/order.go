package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"go.uber.org/fx"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
	"github.com/polkiloo/tableside/internal/domain/repository"
	"github.com/polkiloo/tableside/internal/estimator"
	"github.com/polkiloo/tableside/internal/lifecycle"
)

var activeStatuses = []model.OrderStatus{model.OrderStatusPending, model.OrderStatusPreparing}

// OrderParams groups dependencies of OrderUseCase.
type OrderParams struct {
	fx.In

	Orders    repository.OrderRepository
	Snapshots repository.SnapshotCache
	Menu      repository.MenuRepository
	Machine   *lifecycle.Machine
	Kitchen   *lifecycle.Kitchen
	Statuses  StatusNotifier
	Tables    TableNotifier
	Logger    *slog.Logger
	IDs       IDGenerator `optional:"true"`
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders    repository.OrderRepository
	snapshots repository.SnapshotCache
	menu      repository.MenuRepository
	machine   *lifecycle.Machine
	kitchen   *lifecycle.Kitchen
	statuses  StatusNotifier
	tables    TableNotifier
	logger    *slog.Logger
	ids       IDGenerator
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(p OrderParams) *OrderUseCase {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ids := p.IDs
	if ids == nil {
		ids = NewUUID
	}
	return &OrderUseCase{
		orders:    p.Orders,
		snapshots: p.Snapshots,
		menu:      p.Menu,
		machine:   p.Machine,
		kitchen:   p.Kitchen,
		statuses:  p.Statuses,
		tables:    p.Tables,
		logger:    logger,
		ids:       ids,
	}
}

// Estimate returns preparation minutes for items priced from the catalog.
func (u *OrderUseCase) Estimate(items []model.LineItem) (int, error) {
	resolved, err := resolveItems(u.menu, items)
	if err != nil {
		return 0, err
	}
	return estimator.Estimate(resolved), nil
}

// Create places a new pending order. Items are re-read from the catalog so
// prices and preparation times cannot be supplied by the caller.
func (u *OrderUseCase) Create(ctx context.Context, items []model.LineItem, tableNumber int) (*model.Order, error) {
	if tableNumber <= 0 {
		return nil, domainErrors.ErrInvalidTable
	}
	resolved, err := resolveItems(u.menu, items)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return nil, domainErrors.ErrEmptyOrder
	}

	now := u.machine.Now()
	order := model.Order{
		ID:              u.ids(),
		Items:           resolved,
		Status:          model.OrderStatusPending,
		TableNumber:     tableNumber,
		Total:           estimator.Total(resolved),
		CreatedAt:       now,
		EstimatedTime:   estimator.Estimate(resolved),
		StatusChangedAt: now,
		UpdatedAt:       now,
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	u.remember(ctx, order)

	if err := u.tables.TableOccupied(ctx, model.TableEvent{
		TableNumber: order.TableNumber,
		Occupied:    true,
		OrderID:     order.ID,
		Timestamp:   now,
	}); err != nil {
		u.logger.Warn("notify table occupied failed", slog.String("order", order.ID), slog.String("error", err.Error()))
	}
	u.broadcast(ctx, model.StatusChange{
		OrderID:       order.ID,
		TableNumber:   order.TableNumber,
		NewStatus:     order.Status,
		EstimatedTime: order.EstimatedTime,
		ChangedBy:     model.ActorCustomer,
		Timestamp:     now,
	})

	return &order, nil
}

// Get returns the order with its derived progress. When persistence is
// unreachable the last cached snapshot is served and marked stale.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.OrderView, error) {
	order, err := u.orders.Get(ctx, id)
	stale := false
	if err != nil {
		if !errors.Is(err, domainErrors.ErrPersistenceUnavailable) {
			return nil, err
		}
		cached, cacheErr := u.snapshots.Get(ctx, id)
		if cacheErr != nil {
			u.logger.Warn("snapshot fallback failed", slog.String("order", id), slog.String("error", cacheErr.Error()))
			return nil, err
		}
		order, stale = cached, true
	} else {
		u.remember(ctx, *order)
	}

	view := u.view(*order, stale)
	return &view, nil
}

// List returns orders in the given statuses, newest first. An empty filter
// matches every status.
func (u *OrderUseCase) List(ctx context.Context, statuses []model.OrderStatus) ([]model.OrderView, error) {
	for _, s := range statuses {
		if _, err := model.ParseOrderStatus(string(s)); err != nil {
			return nil, err
		}
	}

	orders, err := u.orders.List(ctx, statuses, 0)
	stale := false
	if err != nil {
		if !errors.Is(err, domainErrors.ErrPersistenceUnavailable) {
			return nil, err
		}
		cached, cacheErr := u.snapshots.List(ctx, statuses)
		if cacheErr != nil || len(cached) == 0 {
			return nil, err
		}
		orders, stale = cached, true
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	views := make([]model.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, u.view(o, stale))
	}
	return views, nil
}

// UpdateStatus moves order id to status on behalf of actor.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, actor model.Actor) (*model.Order, error) {
	if _, err := model.ParseOrderStatus(string(status)); err != nil {
		return nil, err
	}
	current, err := u.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.transition(ctx, *current, status, actor)
}

// Advance moves the order one step forward on behalf of staff.
func (u *OrderUseCase) Advance(ctx context.Context, id string) (*model.Order, error) {
	current, err := u.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, domainErrors.ErrOrderNotFound
	}
	next, ok := lifecycle.Next(current.Status)
	if !ok {
		return nil, domainErrors.ErrInvalidTransition
	}
	return u.transition(ctx, *current, next, model.ActorStaff)
}

// Acknowledge records that the customer received a ready order.
func (u *OrderUseCase) Acknowledge(ctx context.Context, id string) (*model.Order, error) {
	return u.UpdateStatus(ctx, id, model.OrderStatusCompleted, model.ActorCustomer)
}

// ActiveOrders returns up to limit pending or preparing orders, oldest first.
func (u *OrderUseCase) ActiveOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.List(ctx, activeStatuses, limit)
}

// AutoAdvance applies the elapsed-time rule to order at the current kitchen
// load. It reports whether the order moved. Losing a race against another
// writer is not an error.
func (u *OrderUseCase) AutoAdvance(ctx context.Context, order model.Order) (bool, error) {
	next, due := u.machine.Due(order, u.kitchen.Load())
	if !due {
		return false, nil
	}
	if _, err := u.transition(ctx, order, next, model.ActorTimer); err != nil {
		if errors.Is(err, domainErrors.ErrInvalidTransition) || errors.Is(err, domainErrors.ErrOrderNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ApplyExternal merges a status pushed by the external store into the local
// order. Updates never move an order backwards. An update that loses to a
// concurrent write is dropped without notifying anyone.
func (u *OrderUseCase) ApplyExternal(ctx context.Context, update model.StatusUpdate) error {
	if _, err := model.ParseOrderStatus(string(update.Status)); err != nil {
		return err
	}
	if update.UpdatedAt.IsZero() {
		update.UpdatedAt = u.machine.Now()
	}

	local, err := u.orders.Get(ctx, update.OrderID)
	if err != nil {
		return err
	}
	merged, changed := lifecycle.Merge(*local, update)
	if !changed {
		return nil
	}

	if err := u.orders.Save(ctx, merged); err != nil {
		if errors.Is(err, domainErrors.ErrInvalidTransition) {
			u.logger.Debug("external update superseded",
				slog.String("order", update.OrderID),
				slog.String("status", string(update.Status)),
			)
			return nil
		}
		return err
	}
	u.remember(ctx, merged)
	u.broadcast(ctx, lifecycle.ChangeOf(*local, merged, model.ActorExternal))
	if merged.Status == model.OrderStatusCompleted && local.Status != model.OrderStatusCompleted {
		u.freeTable(ctx, merged)
	}
	return nil
}

// KitchenLoad returns the current load and whether staff pinned it.
func (u *OrderUseCase) KitchenLoad() (model.KitchenLoad, bool) {
	return u.kitchen.Load(), u.kitchen.Pinned()
}

// PinKitchenLoad fixes the load reported to customers.
func (u *OrderUseCase) PinKitchenLoad(load model.KitchenLoad) {
	u.kitchen.Pin(load)
}

// ReleaseKitchenLoad returns to simulated load.
func (u *OrderUseCase) ReleaseKitchenLoad() {
	u.kitchen.Release()
}

// RollKitchenLoad takes a new simulated load reading.
func (u *OrderUseCase) RollKitchenLoad() model.KitchenLoad {
	return u.kitchen.Roll()
}

func (u *OrderUseCase) transition(ctx context.Context, current model.Order, to model.OrderStatus, actor model.Actor) (*model.Order, error) {
	updated, _, err := u.machine.Transition(current, to, actor)
	if err != nil {
		return nil, err
	}

	stored, err := u.orders.UpdateStatus(ctx, current.ID, current.Status, to, updated.StatusChangedAt)
	if err != nil {
		return nil, err
	}
	u.remember(ctx, *stored)
	u.broadcast(ctx, lifecycle.ChangeOf(current, *stored, actor))
	if stored.Status == model.OrderStatusCompleted {
		u.freeTable(ctx, *stored)
	}
	return stored, nil
}

func (u *OrderUseCase) view(order model.Order, stale bool) model.OrderView {
	load := u.kitchen.Load()
	return model.OrderView{
		Order:    order,
		Progress: u.machine.Progress(order, load),
		Load:     load,
		Stale:    stale,
	}
}

func (u *OrderUseCase) remember(ctx context.Context, order model.Order) {
	if u.snapshots == nil {
		return
	}
	if err := u.snapshots.Save(ctx, order); err != nil {
		u.logger.Warn("cache order snapshot failed", slog.String("order", order.ID), slog.String("error", err.Error()))
	}
}

func (u *OrderUseCase) broadcast(ctx context.Context, change model.StatusChange) {
	if err := u.statuses.StatusChanged(ctx, change); err != nil {
		u.logger.Warn("notify status change failed",
			slog.String("order", change.OrderID),
			slog.String("status", string(change.NewStatus)),
			slog.String("error", err.Error()),
		)
	}
}

func (u *OrderUseCase) freeTable(ctx context.Context, order model.Order) {
	if err := u.tables.TableFreed(ctx, model.TableEvent{
		TableNumber: order.TableNumber,
		OrderID:     order.ID,
		Timestamp:   order.UpdatedAt,
	}); err != nil {
		u.logger.Warn("notify table freed failed", slog.String("order", order.ID), slog.String("error", err.Error()))
	}
}

// resolveItems replaces caller supplied menu data with catalog entries and
// folds duplicate ids into one line.
func resolveItems(menu repository.MenuRepository, items []model.LineItem) ([]model.LineItem, error) {
	resolved := make([]model.LineItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		if i, ok := index[item.ID]; ok {
			resolved[i].Quantity += item.Quantity
			continue
		}
		entry, err := menu.Get(item.ID)
		if err != nil {
			return nil, err
		}
		index[item.ID] = len(resolved)
		resolved = append(resolved, model.LineItem{MenuItem: *entry, Quantity: item.Quantity})
	}
	return resolved, nil
}
