package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/adapter/broker"
	"github.com/polkiloo/tableside/internal/config"
	"github.com/polkiloo/tableside/internal/server/http/handlers"
	"github.com/polkiloo/tableside/internal/server/stream"
	"github.com/polkiloo/tableside/internal/storage/postgres"
	"github.com/polkiloo/tableside/internal/usecase"
	"github.com/polkiloo/tableside/internal/worker"
)

const kitchenLoadInterval = 30 * time.Second

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewRestaurantFacade,
		func(f *RestaurantFacade) handlers.RestaurantFacade { return f },
		func(h *stream.Hub) StatusStream { return h },
		func(s *postgres.Storage) HealthChecker { return s },
		newNotifier,
		func(n *Notifier) usecase.StatusNotifier { return n },
		func(n *Notifier) usecase.TableNotifier { return n },
		newHTTPServer,
		newAutoAdvancer,
		newStatusListener,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *RestaurantFacade
	Config *config.Config
	Logger *slog.Logger
}

func newAutoAdvancer(p workerParams) *worker.AutoAdvancer {
	return worker.NewAutoAdvancer(
		p.Facade,
		p.Config.TickInterval,
		kitchenLoadInterval,
		p.Config.MaxOrdersBatch,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type listenerParams struct {
	fx.In

	Facade *RestaurantFacade
	Broker *broker.Broker `optional:"true"`
	Logger *slog.Logger
}

// newStatusListener returns nil when no broker is configured.
func newStatusListener(p listenerParams) *worker.StatusListener {
	if p.Broker == nil {
		return nil
	}
	return worker.NewStatusListener(p.Broker, p.Facade, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.AutoAdvancer
	Listener   *worker.StatusListener `optional:"true"`
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting tableside", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			if p.Listener != nil {
				p.Listener.Start(ctx)
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if p.Listener != nil {
				p.Listener.Stop()
			}
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("tableside stopped")
			return nil
		},
	})
}
