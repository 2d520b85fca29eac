package fx

import (
	"context"

	"blueprintforge/internal/app/amqp/generateworker"
	"blueprintforge/internal/pkg/amqpclient"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module(
	"amqp-generateworker",
	fx.Provide(
		amqpclient.NewAMQP,
		fx.Annotate(
			generateworker.NewGenerateHandler,
			fx.As(new(generateworker.Handler)),
		),
		generateworker.NewConsumer,
	),
	fx.Invoke(registerLifecycleHooks),
)

type hooksParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Consumer  *generateworker.Consumer
	Logger    *zap.SugaredLogger
}

func registerLifecycleHooks(p hooksParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Infow("generateworker_starting")
			return p.Consumer.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Infow("generateworker_stopping")
			return p.Consumer.Stop(ctx)
		},
	})
}
