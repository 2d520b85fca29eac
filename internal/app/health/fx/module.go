package fx

import (
	"go.uber.org/fx"

	"blueprintforge/internal/app/health"
	"blueprintforge/internal/router"
)

var Module = fx.Options(
	router.AsRoute(health.NewHandler),
)
