package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/imago-sys/occurrence-backend/internal/domain"
	occservice "github.com/imago-sys/occurrence-backend/internal/service/occurrence"
)

type intakeService interface {
	Create(ctx context.Context, input occservice.CreateInput) (*domain.Occurrence, error)
}

// IntakeHandler serves the public occurrence intake endpoint.
type IntakeHandler struct {
	occurrences intakeService
	log         *slog.Logger
}

// NewIntakeHandler creates an IntakeHandler.
func NewIntakeHandler(occurrences intakeService, logger *slog.Logger) *IntakeHandler {
	return &IntakeHandler{
		occurrences: occurrences,
		log:         logger.With("handler", "intake"),
	}
}

type createOccurrenceRequest struct {
	ReporterName      string `json:"reporter_name"`
	ReporterPhone     string `json:"reporter_phone"`
	ReporterBirthdate string `json:"reporter_birthdate"`
	Category          string `json:"category"`
	Reason            string `json:"reason"`
}

// Create registers a new occurrence.
// POST /api/v1/occurrences
func (h *IntakeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOccurrenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	created, err := h.occurrences.Create(r.Context(), occservice.CreateInput{
		ReporterName:      req.ReporterName,
		ReporterPhone:     req.ReporterPhone,
		ReporterBirthdate: req.ReporterBirthdate,
		Category:          req.Category,
		Reason:            req.Reason,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	h.log.InfoContext(r.Context(), "occurrence registered",
		slog.String("occurrence_id", created.ID.String()),
	)

	writeJSON(w, http.StatusCreated, toOccurrenceResponse(created))
}
