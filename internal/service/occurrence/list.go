package occurrence

import (
	"context"
	"fmt"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

// List returns occurrences matching the optional status and category
// filters, newest created first.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Occurrence, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	occurrences, err := s.occurrences.List(ctx, input.filter())
	if err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}
	return occurrences, nil
}
