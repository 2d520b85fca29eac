package fx

import (
	"blueprintforge/internal/app/blueprints"
	"blueprintforge/internal/router"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"blueprints",
	fx.Provide(
		blueprints.NewStore,
		blueprints.NewActivityLog,
	),
	router.AsRoute(blueprints.NewGetByIDHandler),
	router.AsRoute(blueprints.NewParseHandler),
)
