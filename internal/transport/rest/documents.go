package rest

import (
	"log/slog"
	"net/http"

	"github.com/imago-sys/occurrence-backend/internal/blob"
)

// DocumentsHandler serves stored finalization documents.
type DocumentsHandler struct {
	store blob.Store
	log   *slog.Logger
}

// NewDocumentsHandler creates a DocumentsHandler.
func NewDocumentsHandler(store blob.Store, logger *slog.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		store: store,
		log:   logger.With("handler", "documents"),
	}
}

// Get streams a stored document by name.
// GET /api/v1/documents/{name}
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "document name required")
		return
	}

	obj, err := h.store.Get(r.Context(), name)
	if err != nil {
		if blob.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		h.log.ErrorContext(r.Context(), "get document",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(obj.Content) //nolint:errcheck
}
