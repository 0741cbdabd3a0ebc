package stream

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the status change hub.
var Module = fx.Options(
	fx.Provide(NewHub),
	fx.Invoke(func(lc fx.Lifecycle, hub *Hub) {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				hub.Close()
				return nil
			},
		})
	}),
)
