package enqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"blueprintforge/config"
	"blueprintforge/internal/app/amqp/generateworker"
	"blueprintforge/internal/app/blueprints"
	"blueprintforge/internal/generate"
	"blueprintforge/internal/pkg/render"
	"blueprintforge/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type queuedWriter interface {
	UpsertQueued(ctx context.Context, in blueprints.UpsertQueuedInput) (blueprintID string, err error)
}

// Handler accepts a generation request, records it as QUEUED and publishes
// the event for the generate worker.
type Handler struct {
	cfg       *config.Config
	channel   *amqp.Channel
	logger    *zap.SugaredLogger
	store     queuedWriter
	activity  *blueprints.ActivityLog
	validator *validator.Validate

	publish func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type NewHandlerParams struct {
	fx.In

	Cfg      *config.Config
	Channel  *amqp.Channel `optional:"true"`
	Logger   *zap.SugaredLogger
	Store    *blueprints.Store       `optional:"true"`
	Activity *blueprints.ActivityLog `optional:"true"`
}

func NewHandler(p NewHandlerParams) *Handler {
	var publishFn func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	if p.Channel != nil {
		publishFn = p.Channel.PublishWithContext
	}

	h := &Handler{
		cfg:       p.Cfg,
		channel:   p.Channel,
		logger:    p.Logger,
		activity:  p.Activity,
		validator: validator.New(),
		publish:   publishFn,
	}
	if p.Store != nil {
		h.store = p.Store
	}
	return h
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Post("/v1/blueprints/enqueue", h.Handle)
}

type enqueueResponse struct {
	OK      bool   `json:"ok"`
	EventID string `json:"event_id"`
	ID      string `json:"id,omitempty"`
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req generate.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	if h.cfg.RabbitMQ.URL == "" || h.publish == nil {
		render.ChiErr(w, http.StatusServiceUnavailable, "rabbitmq disabled")
		return
	}

	ex := h.cfg.RabbitMQ.Exchange
	if ex == "" {
		ex = "events"
	}
	routingKey := h.cfg.RabbitMQ.RoutingKey
	if routingKey == "" {
		routingKey = "blueprint.generate.requested.v1"
	}

	now := time.Now().UTC()
	eventID := req.EventID()
	blueprintID := ""

	if h.store != nil {
		requestPayload, err := json.Marshal(req)
		if err != nil {
			render.ChiErr(w, http.StatusInternalServerError, "failed to encode request")
			return
		}
		id, err := h.store.UpsertQueued(r.Context(), blueprints.UpsertQueuedInput{
			EventID:        eventID,
			RequestPayload: string(requestPayload),
			CreatedBy:      "enqueue",
		})
		if err != nil {
			h.logger.Errorw("enqueue_persist_queued_failed", "event_id", eventID, "err", err)
		} else {
			blueprintID = id
		}
	}

	env := generateworker.GenerateRequestedEnvelope{
		EventName: generateworker.GenerateRequestedEventName,
		EventID:   eventID,
		TS:        now,
		Data:      req,
	}
	body, err := json.Marshal(env)
	if err != nil {
		h.logger.Errorw("enqueue_marshal_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, "failed to encode message")
		return
	}

	if h.channel != nil && h.cfg.RabbitMQ.DeclareTopology {
		if err := h.channel.ExchangeDeclare(ex, "topic", true, false, false, false, nil); err != nil {
			h.logger.Errorw("enqueue_exchange_declare_failed", "exchange", ex, "err", err)
			render.ChiErr(w, http.StatusBadGateway, fmt.Sprintf("rabbitmq exchange declare failed: %s", ex))
			return
		}
	}

	if err := h.publish(r.Context(), ex, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    now,
		MessageId:    eventID,
		Body:         body,
	}); err != nil {
		h.logger.Errorw(
			"enqueue_publish_failed",
			"exchange", ex,
			"routing_key", routingKey,
			"event_id", eventID,
			"err", err,
		)
		render.ChiErr(w, http.StatusBadGateway, "failed to publish message")
		return
	}

	h.activity.Record(r.Context(), eventID, "enqueued", req.Topic)

	h.logger.Infow("enqueue_published",
		"exchange", ex,
		"routing_key", routingKey,
		"event_id", eventID,
		"topic", req.Topic,
	)
	render.ChiJSON(w, http.StatusOK, enqueueResponse{OK: true, EventID: eventID, ID: blueprintID})
}

var _ router.Handler = (*Handler)(nil)
