package automation

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/pkg/handlers"
	"github.com/JaimeStill/cascade/pkg/routes"
)

// Handler serves automation endpoints.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "automation"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/automation",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/batch", Handler: h.StartBatch},
			{Method: "POST", Pattern: "/{documentId}", Handler: h.Start},
			{Method: "GET", Pattern: "/{documentId}/status", Handler: h.Status},
			{Method: "GET", Pattern: "/{documentId}/result", Handler: h.Result},
		},
	}
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	overrides, err := handlers.DecodeOptional[Overrides](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Start(r.Context(), id, overrides)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) StartBatch(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeOptional[BatchRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	results, err := h.sys.StartBatch(r.Context(), req.DocumentIDs, req.Overrides)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, results)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	status, err := h.sys.Status(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, status)
}

func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Result(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) documentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
