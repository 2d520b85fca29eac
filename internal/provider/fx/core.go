package fx

import (
	providerPkg "blueprintforge/internal/provider"

	"go.uber.org/fx"
)

func AsProvider(f any) fx.Option {
	return fx.Provide(
		fx.Annotate(
			f,
			fx.As(new(providerPkg.Provider)),
			fx.ResultTags(`group:"llm_providers"`),
		),
	)
}

var Module = fx.Options(
	AsProvider(providerPkg.NewOllama),
	AsProvider(providerPkg.NewClaude),
	AsProvider(providerPkg.NewPerplexity),
	fx.Provide(
		fx.Annotate(
			providerPkg.NewRegistry,
			fx.ParamTags(`group:"llm_providers"`),
		),
	),
)
