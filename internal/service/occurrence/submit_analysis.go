package occurrence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/adapter/provider/analysis"
	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// SubmitForAnalysis
// ---------------------------------------------------------------------------

// SubmitForAnalysis persists the operator note, moves the occurrence to
// in_analysis, and runs the external analysis round trip.
//
// The in_analysis write commits before the collaborator is called, so other
// readers observe the processing state immediately. On success the analysis
// fields and resulting status land in a single guarded update. On any
// collaborator failure the status is reverted to open with the note
// preserved; if the reversion itself fails, both errors are surfaced.
func (s *Service) SubmitForAnalysis(ctx context.Context, id uuid.UUID, input SubmitInput) (*domain.Occurrence, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	occ, err := s.occurrences.MarkInAnalysis(ctx, id, input.AdminNote)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "occurrence submitted for analysis",
		slog.String("occurrence_id", id.String()),
	)

	// Once the occurrence is marked in_analysis the round trip must settle it
	// either forward or back to open. A client disconnect must not abort the
	// in-flight call or the reversion write, so the rest of the operation runs
	// detached from the request context; the provider's own timeout still
	// bounds the external call.
	opCtx := context.WithoutCancel(ctx)

	result, analyzeErr := s.analyzer.Analyze(opCtx, analysis.NewRequest(occ, input.AdminNote))
	if analyzeErr != nil {
		s.log.WarnContext(opCtx, "analysis failed, reverting to open",
			slog.String("occurrence_id", id.String()),
			slog.String("error", analyzeErr.Error()),
		)

		if _, revertErr := s.occurrences.RevertToOpen(opCtx, id); revertErr != nil {
			return nil, errors.Join(
				fmt.Errorf("analysis: %w", analyzeErr),
				fmt.Errorf("revert to open: %w", revertErr),
			)
		}
		return nil, analyzeErr
	}

	updated, err := s.occurrences.ApplyAnalysis(opCtx, id,
		result.Summary, result.Classification, result.Conclusion, result.Status)
	if err != nil {
		return nil, fmt.Errorf("apply analysis: %w", err)
	}

	s.log.InfoContext(opCtx, "analysis applied",
		slog.String("occurrence_id", id.String()),
		slog.String("status", updated.Status.String()),
	)

	return updated, nil
}
