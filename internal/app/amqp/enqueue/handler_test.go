package enqueue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"blueprintforge/config"
	"blueprintforge/internal/app/amqp/generateworker"
	"blueprintforge/internal/app/blueprints"
)

type stubStore struct {
	inputs []blueprints.UpsertQueuedInput
}

func (s *stubStore) UpsertQueued(ctx context.Context, in blueprints.UpsertQueuedInput) (string, error) {
	_ = ctx
	s.inputs = append(s.inputs, in)
	return in.EventID, nil
}

type publishedMsg struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

func newTestHandler(t *testing.T) (*Handler, *stubStore, *[]publishedMsg) {
	t.Helper()

	cfg, err := config.NewConfig(config.NewViper())
	require.NoError(t, err)
	cfg.RabbitMQ.URL = "amqp://test"
	cfg.RabbitMQ.DeclareTopology = false

	store := &stubStore{}
	published := &[]publishedMsg{}

	h := &Handler{
		cfg:       cfg,
		logger:    zap.NewNop().Sugar(),
		store:     store,
		validator: validator.New(),
		publish: func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
			*published = append(*published, publishedMsg{exchange: exchange, key: key, msg: msg})
			return nil
		},
	}
	return h, store, published
}

func postEnqueue(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoute(r)

	req := httptest.NewRequest(http.MethodPost, "/v1/blueprints/enqueue", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestEnqueueHandler_PublishesAndPersists(t *testing.T) {
	t.Parallel()

	h, store, published := newTestHandler(t)

	rr := postEnqueue(t, h, `{"topic":"security awareness","organization":"Acme","role":"CISO","duration_weeks":6}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		OK      bool   `json:"ok"`
		EventID string `json:"event_id"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.OK)
	require.True(t, strings.HasPrefix(resp.EventID, "reqsha256:"))
	require.Equal(t, resp.EventID, resp.ID)

	require.Len(t, store.inputs, 1)
	require.Equal(t, resp.EventID, store.inputs[0].EventID)
	require.Equal(t, "enqueue", store.inputs[0].CreatedBy)

	require.Len(t, *published, 1)
	got := (*published)[0]
	require.Equal(t, "events", got.exchange)
	require.Equal(t, "blueprint.generate.requested.v1", got.key)
	require.Equal(t, resp.EventID, got.msg.MessageId)

	var env generateworker.GenerateRequestedEnvelope
	require.NoError(t, json.Unmarshal(got.msg.Body, &env))
	require.Equal(t, generateworker.GenerateRequestedEventName, env.EventName)
	require.Equal(t, "security awareness", env.Data.Topic)
	require.Equal(t, 6, env.Data.DurationWeeks)
}

func TestEnqueueHandler_SameRequestSameEventID(t *testing.T) {
	t.Parallel()

	h, _, published := newTestHandler(t)
	body := `{"topic":"onboarding","organization":"Acme","role":"HR Lead"}`

	rr1 := postEnqueue(t, h, body)
	rr2 := postEnqueue(t, h, body)
	require.Equal(t, http.StatusOK, rr1.Code)
	require.Equal(t, http.StatusOK, rr2.Code)

	require.Len(t, *published, 2)
	require.Equal(t, (*published)[0].msg.MessageId, (*published)[1].msg.MessageId)
}

func TestEnqueueHandler_ValidationErrors(t *testing.T) {
	t.Parallel()

	h, _, published := newTestHandler(t)

	rr := postEnqueue(t, h, `{"topic":"x"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postEnqueue(t, h, `{"topic":"x","organization":"o","role":"r","provider":"gemini"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postEnqueue(t, h, `not json`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	require.Empty(t, *published)
}

func TestEnqueueHandler_RabbitDisabled(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler(t)
	h.cfg.RabbitMQ.URL = ""

	rr := postEnqueue(t, h, `{"topic":"x","organization":"o","role":"r"}`)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.Contains(t, rr.Body.String(), "rabbitmq disabled")
}
