package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/adapter/broker"
	"github.com/polkiloo/tableside/internal/adapter/tables"
	"github.com/polkiloo/tableside/internal/app"
	"github.com/polkiloo/tableside/internal/config"
	"github.com/polkiloo/tableside/internal/logger"
	"github.com/polkiloo/tableside/internal/pkg/auth"
	"github.com/polkiloo/tableside/internal/server/http/router"
	"github.com/polkiloo/tableside/internal/server/stream"
	"github.com/polkiloo/tableside/internal/storage/catalog"
	"github.com/polkiloo/tableside/internal/storage/memory"
	"github.com/polkiloo/tableside/internal/storage/mongo"
	"github.com/polkiloo/tableside/internal/storage/postgres"
	"github.com/polkiloo/tableside/internal/storage/snapshot"
	"github.com/polkiloo/tableside/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		mongo.Module,
		snapshot.Module,
		memory.Module,
		catalog.Module,
		broker.Module,
		tables.Module,
		stream.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
