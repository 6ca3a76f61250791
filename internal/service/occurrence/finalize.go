package occurrence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/document"
	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Finalize
// ---------------------------------------------------------------------------

// Finalize closes an occurrence: it draws the next protocol number for the
// current day, renders and stores the occurrence record document, and stamps
// protocol number, document URL, and the terminal status in one guarded
// update.
//
// The counter draw runs in its own transaction; a failure after the draw
// leaves a gap in that day's sequence, never a duplicate. Two concurrent
// finalizations of the same occurrence race on the guarded update and
// exactly one wins.
func (s *Service) Finalize(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
	current, err := s.occurrences.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Status != domain.StatusAwaitingConfirmation {
		return nil, fmt.Errorf("occurrence %s: %w", id,
			&domain.TransitionError{From: current.Status, To: domain.StatusFinalized})
	}

	// An occurrence stamped with a protocol/document pair but not yet in the
	// terminal state keeps its pair; only the status flip is missing.
	if current.HasDocument() {
		s.log.WarnContext(ctx, "finalize repair: protocol already stamped",
			slog.String("occurrence_id", id.String()),
			slog.String("protocol", *current.ProtocolNumber),
		)
		return s.occurrences.Finalize(ctx, id, *current.ProtocolNumber, *current.DocumentURL)
	}

	protocol, err := s.nextProtocol(ctx)
	if err != nil {
		return nil, fmt.Errorf("next protocol: %w", err)
	}

	docName := protocol + ".html"
	docURL := s.documentCfg.BaseURL + "/" + docName

	html, err := s.renderer.Render(current, protocol)
	if err != nil {
		return nil, err
	}

	if err := s.documents.Put(ctx, docName, html, document.ContentType); err != nil {
		return nil, fmt.Errorf("store document %s: %v: %w", docName, err, domain.ErrStorage)
	}

	finalized, err := s.occurrences.Finalize(ctx, id, protocol, docURL)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "occurrence finalized",
		slog.String("occurrence_id", id.String()),
		slog.String("protocol", protocol),
	)

	return finalized, nil
}

// nextProtocol draws the next number for today's date key and formats the
// full protocol string, e.g. IMAGO-20260830-0001.
func (s *Service) nextProtocol(ctx context.Context) (string, error) {
	dateKey := time.Now().UTC().Format("20060102")

	var counter int
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var nextErr error
		counter, nextErr = s.protocols.Next(txCtx, dateKey)
		return nextErr
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%04d", s.protocolCfg.Prefix, dateKey, counter), nil
}
