package memory

import (
	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/domain/repository"
)

// Module provides in-process repositories.
var Module = fx.Provide(
	NewCartRepository,
	func(r *CartRepository) repository.CartRepository { return r },
)
