package blueprints

import (
	"encoding/json"
	"net/http"

	"blueprintforge/internal/blueprint"
	"blueprintforge/internal/pkg/render"
	"blueprintforge/internal/router"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// maxParseBody caps how much raw model output one request may carry.
const maxParseBody = 4 << 20

// ParseHandler runs raw model output through the recovery pipeline without
// touching storage. Useful for clients that call providers themselves.
type ParseHandler struct {
	pipeline *blueprint.Pipeline
	logger   *zap.SugaredLogger
}

type NewParseHandlerParams struct {
	fx.In

	Logger *zap.SugaredLogger
}

func NewParseHandler(p NewParseHandlerParams) *ParseHandler {
	return &ParseHandler{
		pipeline: blueprint.New(blueprint.ZapSink(p.Logger)),
		logger:   p.Logger,
	}
}

func (h *ParseHandler) RegisterRoute(r *chi.Mux) {
	r.Post("/v1/blueprints/parse", h.Handle)
}

type parseRequest struct {
	Raw string `json:"raw"`
}

type parseErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	Error     string         `json:"error"`
	Details   map[string]any `json:"details,omitempty"`
}

func (h *ParseHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxParseBody)).Decode(&req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	doc, err := h.pipeline.ParseDocument(req.Raw)
	if err != nil {
		if perr, ok := blueprint.AsError(err); ok {
			render.ChiJSON(w, http.StatusUnprocessableEntity, parseErrorResponse{
				ErrorCode: string(perr.Code),
				Error:     perr.Message,
				Details:   perr.Details,
			})
			return
		}
		h.logger.Errorw("blueprint_parse_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, "parse failed")
		return
	}

	render.ChiJSON(w, http.StatusOK, map[string]any{"document": doc})
}

var _ router.Handler = (*ParseHandler)(nil)
