package generatefn

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"blueprintforge/config"
	"blueprintforge/internal/app/amqp/generateworker"
	"blueprintforge/internal/app/blueprints"
	"blueprintforge/internal/blueprint"
	"blueprintforge/internal/generate"
	"blueprintforge/internal/provider"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// GenerateRequestedEventName aliases the AMQP surface's constant so both
// transports trigger off the same event.
const GenerateRequestedEventName = generateworker.GenerateRequestedEventName

// GenerateFunction is the Inngest twin of the AMQP generate worker: same
// provider call, same recovery pipeline, same persistence, expressed as
// durable steps.
type GenerateFunction struct {
	cfg      *config.Config
	registry *provider.Registry
	store    *blueprints.Store
	pipeline *blueprint.Pipeline
	logger   *zap.SugaredLogger
}

type NewGenerateFunctionParams struct {
	fx.In

	Cfg      *config.Config
	Registry *provider.Registry
	Store    *blueprints.Store
	Logger   *zap.SugaredLogger
}

func NewGenerateFunction(p NewGenerateFunctionParams) *GenerateFunction {
	return &GenerateFunction{
		cfg:      p.Cfg,
		registry: p.Registry,
		store:    p.Store,
		pipeline: blueprint.New(blueprint.ZapSink(p.Logger)),
		logger:   p.Logger,
	}
}

func (f *GenerateFunction) Handle(ctx context.Context, input inngestgo.Input[generate.Request]) (any, error) {
	req := input.Event.Data
	if strings.TrimSpace(req.Topic) == "" {
		return nil, inngestgo.NoRetryError(fmt.Errorf("missing topic"))
	}

	eventID := ""
	if input.Event.ID != nil {
		eventID = strings.TrimSpace(*input.Event.ID)
	}
	if eventID == "" {
		eventID = req.EventID()
	}

	prov, err := f.registry.Resolve(req.Provider)
	if err != nil {
		return nil, inngestgo.NoRetryError(err)
	}

	raw, err := step.Run(ctx, "call-provider", func(ctx context.Context) (string, error) {
		f.logger.Infow("inngest_step",
			"step", "call-provider",
			"provider", prov.Name(),
			"event_id", eventID,
		)
		return prov.Generate(ctx, generate.BuildPrompt(req))
	})
	if err != nil {
		return nil, err
	}

	doc, err := step.Run(ctx, "parse-document", func(ctx context.Context) (blueprint.Document, error) {
		d, perr := f.pipeline.ParseDocument(raw)
		if perr == nil {
			return d, nil
		}

		f.logger.Infow("inngest_repair_attempt",
			"event_id", eventID,
			"provider", prov.Name(),
			"parse_err", perr.Error(),
		)

		repaired, rerr := prov.Generate(ctx, generate.BuildRepairPrompt(req, raw))
		if rerr != nil {
			return nil, perr
		}
		return f.pipeline.ParseDocument(repaired)
	})
	if err != nil {
		// Persist the failure before giving up so the row doesn't stay QUEUED.
		requestPayload, _ := json.Marshal(req)
		if _, perr := f.store.UpsertResult(ctx, blueprints.UpsertResultInput{
			EventID:        eventID,
			RequestPayload: string(requestPayload),
			CreatedBy:      "inngest",
			Err:            err,
		}); perr != nil {
			f.logger.Errorw("inngest_persist_failure_failed", "event_id", eventID, "err", perr)
		}
		return nil, inngestgo.NoRetryError(err)
	}

	blueprintID, err := step.Run(ctx, "persist-blueprint", func(ctx context.Context) (string, error) {
		requestPayload, merr := json.Marshal(req)
		if merr != nil {
			return "", inngestgo.NoRetryError(fmt.Errorf("marshal generation request: %w", merr))
		}

		id, perr := f.store.UpsertResult(ctx, blueprints.UpsertResultInput{
			EventID:        eventID,
			RequestPayload: string(requestPayload),
			CreatedBy:      "inngest",
			Document:       doc,
		})
		if perr != nil {
			return "", inngestgo.NoRetryError(perr)
		}
		return id, nil
	})
	if err != nil {
		return nil, inngestgo.NoRetryError(err)
	}

	f.logger.Infow("inngest_generate_finished",
		"event_id", eventID,
		"blueprint_id", blueprintID,
		"provider", prov.Name(),
	)

	return map[string]any{
		"blueprint_id": blueprintID,
		"document":     doc,
	}, nil
}
