package blueprints

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"blueprintforge/internal/pkg/render"
	"blueprintforge/internal/router"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type GetByIDHandler struct {
	store  *Store
	logger *zap.SugaredLogger
}

type NewGetByIDHandlerParams struct {
	fx.In

	Store  *Store
	Logger *zap.SugaredLogger
}

func NewGetByIDHandler(p NewGetByIDHandlerParams) *GetByIDHandler {
	return &GetByIDHandler{
		store:  p.Store,
		logger: p.Logger,
	}
}

func (h *GetByIDHandler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/blueprints/{id}", h.Handle)
}

type getByIDResponse struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	Request     any     `json:"request"`
	Document    any     `json:"document"`
	Error       *string `json:"error"`
	CreatedBy   *string `json:"created_by"`
	CreatedAtMs int64   `json:"created_at_ms"`
	UpdatedAtMs int64   `json:"updated_at_ms"`
}

func (h *GetByIDHandler) Handle(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		render.ChiErr(w, http.StatusBadRequest, "missing id")
		return
	}

	row, err := h.store.GetByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		render.ChiErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		h.logger.Errorw("blueprint_get_by_id_failed", "id", id, "err", err)
		render.ChiErr(w, http.StatusInternalServerError, "failed to fetch blueprint")
		return
	}

	var request any
	if err := json.Unmarshal([]byte(row.RequestPayload), &request); err != nil {
		h.logger.Errorw("blueprint_request_unmarshal_failed", "id", id, "err", err)
		render.ChiErr(w, http.StatusInternalServerError, "invalid request payload")
		return
	}

	var document any
	if row.DocumentPayload.Valid {
		if err := json.Unmarshal([]byte(row.DocumentPayload.String), &document); err != nil {
			h.logger.Errorw("blueprint_document_unmarshal_failed", "id", id, "err", err)
			render.ChiErr(w, http.StatusInternalServerError, "invalid document payload")
			return
		}
	}

	resp := getByIDResponse{
		ID:          row.ID,
		Status:      row.Status,
		Request:     request,
		Document:    document,
		Error:       nullableStringPtr(row.Error),
		CreatedBy:   nullableStringPtr(row.CreatedBy),
		CreatedAtMs: row.CreatedAtMs,
		UpdatedAtMs: row.UpdatedAtMs,
	}

	render.ChiJSON(w, http.StatusOK, resp)
}

func nullableStringPtr(v sql.NullString) *string {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil
	}
	s := v.String
	return &s
}

var _ router.Handler = (*GetByIDHandler)(nil)
