package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	cachefx "blueprintforge/cache/fx"
	dbfx "blueprintforge/db/fx"
	generateworkerfx "blueprintforge/internal/app/amqp/generateworker/fx"
	"blueprintforge/internal/app/blueprints"
	appfx "blueprintforge/internal/app/fx"
	providerfx "blueprintforge/internal/provider/fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		dbfx.SQLiteModule,
		cachefx.Module,
		providerfx.Module,
		fx.Provide(
			// Persistence for generation results.
			blueprints.NewStore,
		),
		generateworkerfx.Module,
	)

	app.Run()
}
