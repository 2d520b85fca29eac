package fx

import (
	"blueprintforge/config"
	"blueprintforge/internal/app/inngest"
	"blueprintforge/internal/app/inngest/generatefn"
	pkginngest "blueprintforge/internal/pkg/inngest"
	"blueprintforge/internal/router"

	"github.com/inngest/inngestgo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Provide(
		pkginngest.NewInngestClient,
		generatefn.NewGenerateFunction,
	),
	fx.Invoke(registerFunctions),
	router.AsRoute(inngest.NewInngestHandler),
)

func registerFunctions(
	cfg *config.Config,
	client inngestgo.Client,
	generateFunc *generatefn.GenerateFunction,
	logger *zap.SugaredLogger,
) error {
	if cfg.Inngest.AppID == "" {
		logger.Infow("inngest_disabled", "reason", "missing INNGEST_APP_ID")
		return nil
	}

	_, err := inngestgo.CreateFunction(
		client,
		inngestgo.FunctionOpts{
			ID:      "generate-blueprint",
			Retries: inngestgo.IntPtr(0),
		},
		inngestgo.EventTrigger(generatefn.GenerateRequestedEventName, nil),
		generateFunc.Handle,
	)
	if err != nil {
		logger.Errorw("inngest_create_function_failed", "err", err.Error())
		return err
	}

	logger.Infow("inngest_enabled",
		"path", cfg.Inngest.ServePath,
		"event", generatefn.GenerateRequestedEventName,
	)
	return nil
}
