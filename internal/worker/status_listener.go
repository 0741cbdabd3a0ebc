package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/polkiloo/tableside/internal/domain/model"
)

// UpdateSource delivers status updates pushed by the external store.
type UpdateSource interface {
	Consume(ctx context.Context, handle func(context.Context, model.StatusUpdate) error) error
}

// ExternalFacade reconciles pushed updates with local orders.
type ExternalFacade interface {
	ApplyExternal(ctx context.Context, update model.StatusUpdate) error
}

// StatusListener feeds external status updates into the application.
type StatusListener struct {
	source UpdateSource
	facade ExternalFacade
	logger *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewStatusListener constructs StatusListener.
func NewStatusListener(source UpdateSource, facade ExternalFacade, logger *slog.Logger) *StatusListener {
	return &StatusListener{source: source, facade: facade, logger: logger}
}

// Start begins consuming in the background.
func (l *StatusListener) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.source.Consume(runCtx, l.facade.ApplyExternal); err != nil && runCtx.Err() == nil {
			l.logger.Error("external status updates stopped", slog.String("error", err.Error()))
		}
	}()
}

// Stop cancels consumption and waits for the consumer to return.
func (l *StatusListener) Stop() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()

	l.wg.Wait()
}
