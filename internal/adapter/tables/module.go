package tables

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/config"
)

// Module exposes the table service client. The client is nil when
// TABLE_SERVICE_ADDRESS is not configured.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (*HTTPClient, error) {
	if p.Config.TableServiceAddress == "" {
		return nil, nil
	}
	return NewHTTPClient(p.Config.TableServiceAddress, p.Logger)
}
