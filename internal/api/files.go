package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/internal/documents"
	"github.com/JaimeStill/cascade/pkg/handlers"
	"github.com/JaimeStill/cascade/pkg/routes"
	"github.com/JaimeStill/cascade/pkg/storage"
)

type documentFinder interface {
	Find(ctx context.Context, id uuid.UUID) (*documents.Document, error)
}

// fileHandler streams a document's original upload from blob storage.
type fileHandler struct {
	docs   documentFinder
	store  storage.System
	logger *slog.Logger
}

func newFileHandler(docs documentFinder, store storage.System, logger *slog.Logger) *fileHandler {
	return &fileHandler{
		docs:   docs,
		store:  store,
		logger: logger.With("handler", "files"),
	}
}

func (h *fileHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/download", Handler: h.download},
		},
	}
}

func (h *fileHandler) download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrInvalidID)
		return
	}

	doc, err := h.docs.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	body, err := h.store.Download(r.Context(), doc.StorageKey)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrNotFound) {
			status = http.StatusNotFound
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	if doc.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}
