// Package occurrence implements the occurrence lifecycle business logic:
// intake, admin updates, the analysis round trip with rollback, and
// finalization with protocol numbering and document generation.
package occurrence

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/adapter/provider/analysis"
	"github.com/imago-sys/occurrence-backend/internal/config"
	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type occurrenceRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error)
	List(ctx context.Context, filter domain.OccurrenceFilter) ([]*domain.Occurrence, error)
	Create(ctx context.Context, occ *domain.Occurrence) (*domain.Occurrence, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Occurrence, error)
	MarkInAnalysis(ctx context.Context, id uuid.UUID, adminNote string) (*domain.Occurrence, error)
	ApplyAnalysis(ctx context.Context, id uuid.UUID, summary, classification, conclusion string, status domain.Status) (*domain.Occurrence, error)
	RevertToOpen(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error)
	Finalize(ctx context.Context, id uuid.UUID, protocolNumber, documentURL string) (*domain.Occurrence, error)
}

type protocolRepo interface {
	Next(ctx context.Context, dateKey string) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

type documentStore interface {
	Put(ctx context.Context, name string, content []byte, contentType string) error
}

type documentRenderer interface {
	Render(occ *domain.Occurrence, protocol string) ([]byte, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the occurrence business logic.
type Service struct {
	log         *slog.Logger
	occurrences occurrenceRepo
	protocols   protocolRepo
	tx          txManager
	analyzer    analyzer
	documents   documentStore
	renderer    documentRenderer
	protocolCfg config.ProtocolConfig
	documentCfg config.DocumentConfig
}

// NewService creates a new Occurrence service.
func NewService(
	logger *slog.Logger,
	occurrences occurrenceRepo,
	protocols protocolRepo,
	tx txManager,
	analyzer analyzer,
	documents documentStore,
	renderer documentRenderer,
	protocolCfg config.ProtocolConfig,
	documentCfg config.DocumentConfig,
) *Service {
	return &Service{
		log:         logger.With("service", "occurrence"),
		occurrences: occurrences,
		protocols:   protocols,
		tx:          tx,
		analyzer:    analyzer,
		documents:   documents,
		renderer:    renderer,
		protocolCfg: protocolCfg,
		documentCfg: documentCfg,
	}
}
