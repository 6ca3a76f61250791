package occurrence

import (
	"context"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

// Get returns a single occurrence by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
	return s.occurrences.GetByID(ctx, id)
}
