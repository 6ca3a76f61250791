package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/domain"
	occservice "github.com/imago-sys/occurrence-backend/internal/service/occurrence"
)

type adminService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error)
	List(ctx context.Context, input occservice.ListInput) ([]*domain.Occurrence, error)
	Update(ctx context.Context, id uuid.UUID, input occservice.UpdateInput) (*domain.Occurrence, error)
	SubmitForAnalysis(ctx context.Context, id uuid.UUID, input occservice.SubmitInput) (*domain.Occurrence, error)
	Finalize(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error)
}

// AdminHandler serves the operator occurrence endpoints.
type AdminHandler struct {
	occurrences adminService
	log         *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(occurrences adminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		occurrences: occurrences,
		log:         logger.With("handler", "admin"),
	}
}

// List returns occurrences, optionally filtered by status and category.
// GET /api/v1/admin/occurrences?status=open&category=Clinical
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	occurrences, err := h.occurrences.List(r.Context(), occservice.ListInput{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Occurrences: toOccurrenceList(occurrences)})
}

type listResponse struct {
	Occurrences []occurrenceResponse `json:"occurrences"`
}

// Get returns a single occurrence.
// GET /api/v1/admin/occurrences/{id}
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	occ, err := h.occurrences.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOccurrenceResponse(occ))
}

// Update applies a partial update over the mutable field set. Fields outside
// the mutable set are rejected.
// PATCH /api/v1/admin/occurrences/{id}
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	input, err := decodeUpdateInput(r)
	if err != nil {
		handleError(w, err)
		return
	}

	updated, err := h.occurrences.Update(r.Context(), id, input)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOccurrenceResponse(updated))
}

// decodeUpdateInput parses a PATCH body, rejecting fields outside the
// mutable set so immutable columns cannot be touched over the wire.
func decodeUpdateInput(r *http.Request) (occservice.UpdateInput, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return occservice.UpdateInput{}, domain.NewValidationError("body", "invalid json body")
	}

	var errs []domain.FieldError
	for field := range raw {
		if _, ok := domain.MutableFields[field]; !ok {
			errs = append(errs, domain.FieldError{Field: field, Message: "not updatable"})
		}
	}
	if len(errs) > 0 {
		return occservice.UpdateInput{}, domain.NewValidationErrors(errs)
	}

	var input occservice.UpdateInput
	assign := func(field string, dst any) {
		msg, ok := raw[field]
		if !ok {
			return
		}
		if err := json.Unmarshal(msg, dst); err != nil {
			errs = append(errs, domain.FieldError{Field: field, Message: "invalid value"})
		}
	}

	assign("admin_note", &input.AdminNote)
	assign("ai_summary", &input.AISummary)
	assign("ai_classification", &input.AIClassification)
	assign("ai_conclusion", &input.AIConclusion)
	assign("protocol_number", &input.ProtocolNumber)
	assign("document_url", &input.DocumentURL)

	if msg, ok := raw["status"]; ok {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			errs = append(errs, domain.FieldError{Field: "status", Message: "invalid value"})
		} else {
			status := domain.Status(s)
			input.Status = &status
		}
	}

	if len(errs) > 0 {
		return occservice.UpdateInput{}, domain.NewValidationErrors(errs)
	}
	return input, nil
}

type submitAnalysisRequest struct {
	AdminNote string `json:"admin_note"`
}

// SubmitAnalysis sends an occurrence to the analysis collaborator.
// POST /api/v1/admin/occurrences/{id}/submit-analysis
func (h *AdminHandler) SubmitAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	var req submitAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	updated, err := h.occurrences.SubmitForAnalysis(r.Context(), id, occservice.SubmitInput{
		AdminNote: req.AdminNote,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOccurrenceResponse(updated))
}

// Finalize closes an occurrence, issuing its protocol number and document.
// POST /api/v1/admin/occurrences/{id}/finalize
func (h *AdminHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	finalized, err := h.occurrences.Finalize(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOccurrenceResponse(finalized))
}
