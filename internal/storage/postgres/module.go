package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/config"
	"github.com/polkiloo/tableside/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters. Feedback is exposed
// under a name so that another store can take precedence.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.Factory { return s },
		func(f repository.Factory) repository.OrderRepository { return f.Orders() },
		fx.Annotate(
			func(f repository.Factory) repository.FeedbackRepository { return f.Feedback() },
			fx.ResultTags(`name:"postgresFeedback"`),
		),
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	retry := RetryPolicy{Attempts: p.Config.PersistenceRetries, Backoff: p.Config.PersistenceBackoff}
	return New(p.Ctx, p.Config.DatabaseURI, retry, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
