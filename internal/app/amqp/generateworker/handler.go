package generateworker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"blueprintforge/config"
	"blueprintforge/internal/app/blueprints"
	"blueprintforge/internal/blueprint"
	"blueprintforge/internal/generate"
	"blueprintforge/internal/provider"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "blueprint:doc:"

type resultWriter interface {
	UpsertResult(ctx context.Context, in blueprints.UpsertResultInput) (blueprintID string, err error)
}

// GenerateHandler turns a queued generation request into a persisted
// blueprint: provider call, recovery pipeline, one repair re-prompt on
// pipeline failure, then upsert READY or FAILED.
type GenerateHandler struct {
	cfg      *config.Config
	registry *provider.Registry
	store    resultWriter
	cache    *redis.Client
	pipeline *blueprint.Pipeline
	logger   *zap.SugaredLogger
}

type NewGenerateHandlerParams struct {
	fx.In

	Cfg      *config.Config
	Registry *provider.Registry
	Store    *blueprints.Store
	Cache    *redis.Client `optional:"true"`
	Logger   *zap.SugaredLogger
}

func NewGenerateHandler(p NewGenerateHandlerParams) *GenerateHandler {
	return &GenerateHandler{
		cfg:      p.Cfg,
		registry: p.Registry,
		store:    p.Store,
		cache:    p.Cache,
		pipeline: blueprint.New(blueprint.ZapSink(p.Logger)),
		logger:   p.Logger,
	}
}

func (h *GenerateHandler) Handle(ctx context.Context, msg GenerateRequestedEnvelope) error {
	if strings.TrimSpace(msg.EventID) == "" {
		return fmt.Errorf("missing event_id")
	}
	if strings.TrimSpace(msg.EventName) != "" && msg.EventName != GenerateRequestedEventName {
		return fmt.Errorf("unexpected event_name: %s", msg.EventName)
	}

	req := msg.Data
	requestPayload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal generation request: %w", err)
	}

	if doc, ok := h.cachedDocument(ctx, msg.EventID); ok {
		h.logger.Infow("generateworker_cache_hit", "event_id", msg.EventID)
		return h.persist(ctx, msg.EventID, string(requestPayload), doc, nil)
	}

	doc, genErr := h.generate(ctx, msg.EventID, req)
	if genErr == nil {
		h.cacheDocument(ctx, msg.EventID, doc)
	}

	return h.persist(ctx, msg.EventID, string(requestPayload), doc, genErr)
}

func (h *GenerateHandler) generate(ctx context.Context, eventID string, req generate.Request) (blueprint.Document, error) {
	prov, err := h.registry.Resolve(req.Provider)
	if err != nil {
		return nil, err
	}

	raw, err := prov.Generate(ctx, generate.BuildPrompt(req))
	if err != nil {
		h.logger.Errorw("generateworker_provider_failed",
			"event_id", eventID,
			"provider", prov.Name(),
			"err", err,
		)
		return nil, err
	}

	doc, perr := h.pipeline.ParseDocument(raw)
	if perr == nil {
		return doc, nil
	}

	// Single repair attempt: feed the malformed output back to the model.
	// The pipeline itself never re-prompts.
	h.logger.Infow("generateworker_repair_attempt",
		"event_id", eventID,
		"provider", prov.Name(),
		"parse_err", perr.Error(),
	)

	repaired, rerr := prov.Generate(ctx, generate.BuildRepairPrompt(req, raw))
	if rerr != nil {
		h.logger.Errorw("generateworker_repair_provider_failed",
			"event_id", eventID,
			"provider", prov.Name(),
			"err", rerr,
		)
		return nil, perr
	}

	doc, perr2 := h.pipeline.ParseDocument(repaired)
	if perr2 != nil {
		h.logger.Errorw("generateworker_repair_parse_failed",
			"event_id", eventID,
			"provider", prov.Name(),
			"err", perr2,
		)
		return nil, perr2
	}

	h.logger.Infow("generateworker_repair_succeeded", "event_id", eventID, "provider", prov.Name())
	return doc, nil
}

func (h *GenerateHandler) persist(ctx context.Context, eventID, requestPayload string, doc blueprint.Document, genErr error) error {
	id, err := h.store.UpsertResult(ctx, blueprints.UpsertResultInput{
		EventID:        eventID,
		RequestPayload: requestPayload,
		CreatedBy:      "rabbitmq",
		Document:       doc,
		Err:            genErr,
	})
	if err != nil {
		h.logger.Errorw("generateworker_persist_failed", "event_id", eventID, "err", err)
		return err
	}

	h.logger.Infow("generateworker_finished",
		"event_id", eventID,
		"blueprint_id", id,
		"ok", genErr == nil,
	)
	return nil
}

func (h *GenerateHandler) cachedDocument(ctx context.Context, eventID string) (blueprint.Document, bool) {
	if h.cache == nil {
		return nil, false
	}

	raw, err := h.cache.Get(ctx, cacheKeyPrefix+eventID).Result()
	if err != nil {
		if err != redis.Nil {
			h.logger.Warnw("generateworker_cache_get_failed", "event_id", eventID, "err", err)
		}
		return nil, false
	}

	var doc blueprint.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		h.logger.Warnw("generateworker_cache_decode_failed", "event_id", eventID, "err", err)
		return nil, false
	}
	return doc, true
}

func (h *GenerateHandler) cacheDocument(ctx context.Context, eventID string, doc blueprint.Document) {
	if h.cache == nil || doc == nil {
		return
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return
	}

	ttl := time.Duration(h.cfg.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := h.cache.Set(ctx, cacheKeyPrefix+eventID, payload, ttl).Err(); err != nil {
		h.logger.Warnw("generateworker_cache_set_failed", "event_id", eventID, "err", err)
	}
}

var _ Handler = (*GenerateHandler)(nil)
