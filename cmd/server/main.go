package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	cachefx "blueprintforge/cache/fx"
	dbfx "blueprintforge/db/fx"
	enqueuefx "blueprintforge/internal/app/amqp/enqueue/fx"
	blueprintsfx "blueprintforge/internal/app/blueprints/fx"
	appfx "blueprintforge/internal/app/fx"
	healthfx "blueprintforge/internal/app/health/fx"
	inngestfx "blueprintforge/internal/app/inngest/fx"
	providerfx "blueprintforge/internal/provider/fx"
	routerfx "blueprintforge/internal/router/fx"
	serverfx "blueprintforge/internal/server/fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		dbfx.Module,
		dbfx.SQLiteModule,
		cachefx.Module,
		routerfx.CoreRouterOptions,
		serverfx.ServerOptions,
		healthfx.Module,
		blueprintsfx.Module,
		providerfx.Module,
		inngestfx.Module,
		enqueuefx.Module,
	)

	app.Run()
}
