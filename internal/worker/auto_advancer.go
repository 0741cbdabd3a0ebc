package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/tableside/internal/domain/model"
)

// KitchenFacade exposes the subset of application functionality required by the auto advancer.
type KitchenFacade interface {
	ActiveOrders(ctx context.Context, limit int) ([]model.Order, error)
	AutoAdvance(ctx context.Context, order model.Order) (bool, error)
	RollKitchenLoad() model.KitchenLoad
}

// AutoAdvancer moves pending and preparing orders forward once they have
// spent their threshold in the current status.
type AutoAdvancer struct {
	facade       KitchenFacade
	tick         time.Duration
	loadInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	running sync.Mutex
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
}

// NewAutoAdvancer constructs the elapsed-time worker pool.
func NewAutoAdvancer(facade KitchenFacade, tick, loadInterval time.Duration, batchSize, workers int, logger *slog.Logger) *AutoAdvancer {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if tick <= 0 {
		tick = time.Second
	}
	return &AutoAdvancer{
		facade:       facade,
		tick:         tick,
		loadInterval: loadInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
	}
}

// Start launches background processing.
func (a *AutoAdvancer) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go a.dispatch(runCtx)

	if a.loadInterval > 0 {
		a.wg.Add(1)
		go a.simulateLoad(runCtx)
	}
}

// Stop cancels the running pass and waits for every goroutine to finish.
func (a *AutoAdvancer) Stop() {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()

	a.wg.Wait()
}

func (a *AutoAdvancer) dispatch(ctx context.Context) {
	defer a.wg.Done()
	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.running.TryLock() {
				a.logger.Debug("previous pass still running, tick skipped")
				continue
			}
			a.wg.Add(1)
			go func() {
				defer a.wg.Done()
				defer a.running.Unlock()
				a.pass(ctx)
			}()
		}
	}
}

// pass advances one bounded batch of active orders.
func (a *AutoAdvancer) pass(ctx context.Context) {
	orders, err := a.facade.ActiveOrders(ctx, a.batchSize)
	if err != nil {
		a.logger.Error("fetch active orders failed", slog.String("error", err.Error()))
		return
	}
	if len(orders) == 0 {
		return
	}

	jobs := make(chan model.Order)
	var wg sync.WaitGroup
	for i := 0; i < min(a.workers, len(orders)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for order := range jobs {
				a.handleOrder(ctx, order)
			}
		}()
	}

feed:
	for _, order := range orders {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- order:
		}
	}
	close(jobs)
	wg.Wait()
}

func (a *AutoAdvancer) handleOrder(ctx context.Context, order model.Order) {
	moved, err := a.facade.AutoAdvance(ctx, order)
	if err != nil {
		a.logger.Error("auto advance failed", slog.String("order", order.ID), slog.String("error", err.Error()))
		return
	}
	if moved {
		a.logger.Debug("order advanced", slog.String("order", order.ID), slog.String("from", string(order.Status)))
	}
}

func (a *AutoAdvancer) simulateLoad(ctx context.Context) {
	defer a.wg.Done()
	ticker := time.NewTicker(a.loadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			load := a.facade.RollKitchenLoad()
			a.logger.Debug("kitchen load updated", slog.String("load", string(load)))
		}
	}
}
