package occurrence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// Update applies a partial update to an occurrence. Only the mutable field
// set is accepted; a status change must be a legal transition from the
// occurrence's current status, and the protocol/document pair must stay
// either fully absent or fully present.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Occurrence, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := s.occurrences.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.empty() {
		return current, nil
	}

	if input.Status != nil && *input.Status != current.Status {
		if !current.Status.CanTransitionTo(*input.Status) {
			return nil, fmt.Errorf("occurrence %s: %w", id,
				&domain.TransitionError{From: current.Status, To: *input.Status})
		}
	}

	if err := checkDocumentPair(current, input); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.AdminNote != nil {
		fields["admin_note"] = *input.AdminNote
	}
	if input.AISummary != nil {
		fields["ai_summary"] = *input.AISummary
	}
	if input.AIClassification != nil {
		fields["ai_classification"] = *input.AIClassification
	}
	if input.AIConclusion != nil {
		fields["ai_conclusion"] = *input.AIConclusion
	}
	if input.Status != nil {
		fields["status"] = string(*input.Status)
	}
	if input.ProtocolNumber != nil {
		fields["protocol_number"] = *input.ProtocolNumber
	}
	if input.DocumentURL != nil {
		fields["document_url"] = *input.DocumentURL
	}

	updated, err := s.occurrences.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update occurrence: %w", err)
	}

	s.log.InfoContext(ctx, "occurrence updated",
		slog.String("occurrence_id", id.String()),
		slog.Int("fields", len(fields)),
	)

	return updated, nil
}

// checkDocumentPair rejects updates that would leave exactly one of
// protocol_number and document_url set.
func checkDocumentPair(current *domain.Occurrence, input UpdateInput) error {
	hasProtocol := current.ProtocolNumber != nil
	hasDocument := current.DocumentURL != nil
	if input.ProtocolNumber != nil {
		hasProtocol = true
	}
	if input.DocumentURL != nil {
		hasDocument = true
	}
	if hasProtocol != hasDocument {
		return domain.NewValidationError("protocol_number",
			"protocol_number and document_url must be set together")
	}
	return nil
}
