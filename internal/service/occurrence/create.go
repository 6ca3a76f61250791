package occurrence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

// Create registers a new occurrence from the public intake form. The new
// occurrence always starts in status open.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Occurrence, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	birthdate, err := input.parseBirthdate()
	if err != nil {
		return nil, domain.NewValidationError("reporter_birthdate", err.Error())
	}

	now := time.Now().UTC()
	occ := &domain.Occurrence{
		ID:                uuid.New(),
		ReporterName:      input.ReporterName,
		ReporterPhone:     input.ReporterPhone,
		ReporterBirthdate: birthdate,
		Category:          domain.Category(input.Category),
		Reason:            input.Reason,
		Status:            domain.StatusOpen,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.occurrences.Create(ctx, occ)
	if err != nil {
		return nil, fmt.Errorf("create occurrence: %w", err)
	}

	s.log.InfoContext(ctx, "occurrence created",
		slog.String("occurrence_id", created.ID.String()),
		slog.String("category", created.Category.String()),
	)

	return created, nil
}
