package main

import (
	"context"
	"fmt"

	"go.uber.org/fx"
)

// run starts app and blocks until ctx is cancelled or the app asks to shut
// down. Stopping is bounded by the app's stop timeout.
func run(ctx context.Context, app *fx.App) error {
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start tableside: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop tableside: %w", err)
	}
	return nil
}
