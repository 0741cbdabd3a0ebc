package broker

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/tableside/internal/config"
)

// Module provides the RabbitMQ broker. The broker is nil when AMQP_URL is empty.
var Module = fx.Options(
	fx.Provide(newFromConfig),
	fx.Invoke(registerLifecycle),
)

var dial = Dial

type brokerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newFromConfig(p brokerParams) (*Broker, error) {
	if p.Config.AMQPURL == "" {
		p.Logger.Info("amqp broker disabled")
		return nil, nil
	}
	return dial(p.Config.AMQPURL, p.Config.AMQPExchange, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, b *Broker) {
	if b == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return b.Close()
		},
	})
}
