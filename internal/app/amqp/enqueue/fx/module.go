package fx

import (
	"blueprintforge/internal/app/amqp/enqueue"
	"blueprintforge/internal/pkg/amqpclient"
	"blueprintforge/internal/router"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		amqpclient.NewAMQP,
	),
	router.AsRoute(enqueue.NewHandler),
)
