package fx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"blueprintforge/config"
	"blueprintforge/internal/router"
)

type pingHandler struct{}

func (pingHandler) RegisterRoute(r *chi.Mux) {
	r.Get("/ping", pingHandler{}.Handle)
}

func (pingHandler) Handle(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func TestNewMux_RegistersGroupedHandlers(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewConfig(config.NewViper())
	require.NoError(t, err)

	mux := NewMux(muxParams{
		Cfg:      cfg,
		Logger:   zap.NewNop().Sugar(),
		Handlers: []router.Handler{pingHandler{}},
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "pong", rr.Body.String())
}

func TestNewMux_PreflightAllowedInDev(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewConfig(config.NewViper())
	require.NoError(t, err)
	cfg.ENV = config.Dev

	mux := NewMux(muxParams{
		Cfg:    cfg,
		Logger: zap.NewNop().Sugar(),
	})

	req := httptest.NewRequest(http.MethodOptions, "/v1/blueprints/enqueue", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Less(t, rr.Code, 400)
	require.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}
