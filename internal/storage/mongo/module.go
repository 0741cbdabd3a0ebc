package mongo

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/config"
	"github.com/polkiloo/tableside/internal/domain/repository"
)

// Module selects the feedback store: MongoDB when MONGO_URI is set, the
// PostgreSQL table otherwise.
var Module = fx.Provide(newFeedbackRepository)

var connect = Connect

type feedbackParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Fallback  repository.FeedbackRepository `name:"postgresFeedback"`
}

func newFeedbackRepository(p feedbackParams) (repository.FeedbackRepository, error) {
	if p.Config.MongoURI == "" {
		return p.Fallback, nil
	}

	client, err := connect(p.Ctx, p.Config.MongoURI)
	if err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	p.Logger.Info("feedback stored in mongodb", slog.String("database", p.Config.MongoDatabase))
	return NewFeedbackStore(client.Database(p.Config.MongoDatabase).Collection(feedbackCollection)), nil
}
