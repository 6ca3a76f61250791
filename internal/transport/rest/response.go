package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

type errorResponse struct {
	Error   string        `json:"error"`
	Details []fieldDetail `json:"details,omitempty"`
}

type fieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// handleError maps domain errors onto HTTP status codes. Unknown errors are
// reported as 500 without leaking internals.
func handleError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		details := make([]fieldDetail, 0, len(validationErr.Errors))
		for _, fe := range validationErr.Errors {
			details = append(details, fieldDetail{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Details: details})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrExternalCollaborator):
		writeError(w, http.StatusBadGateway, "analysis collaborator unavailable")
	case errors.Is(err, domain.ErrStorage):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// occurrenceResponse is the wire representation of an occurrence.
type occurrenceResponse struct {
	ID                uuid.UUID `json:"id"`
	ReporterName      string    `json:"reporter_name"`
	ReporterPhone     string    `json:"reporter_phone"`
	ReporterBirthdate string    `json:"reporter_birthdate"`
	Category          string    `json:"category"`
	Reason            string    `json:"reason"`
	AdminNote         *string   `json:"admin_note"`
	Status            string    `json:"status"`
	AISummary         string    `json:"ai_summary"`
	AIClassification  string    `json:"ai_classification"`
	AIConclusion      string    `json:"ai_conclusion"`
	ProtocolNumber    *string   `json:"protocol_number"`
	DocumentURL       *string   `json:"document_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toOccurrenceResponse(occ *domain.Occurrence) occurrenceResponse {
	return occurrenceResponse{
		ID:                occ.ID,
		ReporterName:      occ.ReporterName,
		ReporterPhone:     occ.ReporterPhone,
		ReporterBirthdate: occ.ReporterBirthdate.Format("2006-01-02"),
		Category:          occ.Category.String(),
		Reason:            occ.Reason,
		AdminNote:         occ.AdminNote,
		Status:            occ.Status.String(),
		AISummary:         occ.AISummary,
		AIClassification:  occ.AIClassification,
		AIConclusion:      occ.AIConclusion,
		ProtocolNumber:    occ.ProtocolNumber,
		DocumentURL:       occ.DocumentURL,
		CreatedAt:         occ.CreatedAt,
		UpdatedAt:         occ.UpdatedAt,
	}
}

func toOccurrenceList(occs []*domain.Occurrence) []occurrenceResponse {
	out := make([]occurrenceResponse, 0, len(occs))
	for _, occ := range occs {
		out = append(out, toOccurrenceResponse(occ))
	}
	return out
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "must be a valid UUID")
	}
	return id, nil
}
