package snapshot

import (
	"context"

	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/config"
	"github.com/polkiloo/tableside/internal/domain/repository"
)

// Module provides the local order snapshot cache.
var Module = fx.Options(
	fx.Provide(
		newCache,
		func(c *Cache) repository.SnapshotCache { return c },
	),
	fx.Invoke(registerLifecycle),
)

func newCache(cfg *config.Config) (*Cache, error) {
	return Open(cfg.SnapshotPath)
}

func registerLifecycle(lc fx.Lifecycle, cache *Cache) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return cache.Close()
		},
	})
}
