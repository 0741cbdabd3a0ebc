package catalog

import (
	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/config"
	"github.com/polkiloo/tableside/internal/domain/repository"
)

// Module provides the menu catalog.
var Module = fx.Provide(
	newCatalog,
	func(c *Catalog) repository.MenuRepository { return c },
)

func newCatalog(cfg *config.Config) (*Catalog, error) {
	return Load(cfg.MenuFile)
}
