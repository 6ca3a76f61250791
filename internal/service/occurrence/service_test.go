package occurrence

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/adapter/provider/analysis"
	"github.com/imago-sys/occurrence-backend/internal/config"
	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Test mocks (minimal, inline)
// ---------------------------------------------------------------------------

type mockOccurrenceRepo struct {
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error)
	listFunc           func(ctx context.Context, filter domain.OccurrenceFilter) ([]*domain.Occurrence, error)
	createFunc         func(ctx context.Context, occ *domain.Occurrence) (*domain.Occurrence, error)
	updateFieldsFunc   func(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Occurrence, error)
	markInAnalysisFunc func(ctx context.Context, id uuid.UUID, adminNote string) (*domain.Occurrence, error)
	applyAnalysisFunc  func(ctx context.Context, id uuid.UUID, summary, classification, conclusion string, status domain.Status) (*domain.Occurrence, error)
	revertToOpenFunc   func(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error)
	finalizeFunc       func(ctx context.Context, id uuid.UUID, protocolNumber, documentURL string) (*domain.Occurrence, error)
}

func (m *mockOccurrenceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockOccurrenceRepo) List(ctx context.Context, filter domain.OccurrenceFilter) ([]*domain.Occurrence, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockOccurrenceRepo) Create(ctx context.Context, occ *domain.Occurrence) (*domain.Occurrence, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, occ)
	}
	return occ, nil
}

func (m *mockOccurrenceRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Occurrence, error) {
	if m.updateFieldsFunc != nil {
		return m.updateFieldsFunc(ctx, id, fields)
	}
	return &domain.Occurrence{ID: id}, nil
}

func (m *mockOccurrenceRepo) MarkInAnalysis(ctx context.Context, id uuid.UUID, adminNote string) (*domain.Occurrence, error) {
	if m.markInAnalysisFunc != nil {
		return m.markInAnalysisFunc(ctx, id, adminNote)
	}
	return nil, domain.ErrNotFound
}

func (m *mockOccurrenceRepo) ApplyAnalysis(ctx context.Context, id uuid.UUID, summary, classification, conclusion string, status domain.Status) (*domain.Occurrence, error) {
	if m.applyAnalysisFunc != nil {
		return m.applyAnalysisFunc(ctx, id, summary, classification, conclusion, status)
	}
	return &domain.Occurrence{ID: id, Status: status}, nil
}

func (m *mockOccurrenceRepo) RevertToOpen(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
	if m.revertToOpenFunc != nil {
		return m.revertToOpenFunc(ctx, id)
	}
	return &domain.Occurrence{ID: id, Status: domain.StatusOpen}, nil
}

func (m *mockOccurrenceRepo) Finalize(ctx context.Context, id uuid.UUID, protocolNumber, documentURL string) (*domain.Occurrence, error) {
	if m.finalizeFunc != nil {
		return m.finalizeFunc(ctx, id, protocolNumber, documentURL)
	}
	return &domain.Occurrence{
		ID:             id,
		Status:         domain.StatusFinalized,
		ProtocolNumber: &protocolNumber,
		DocumentURL:    &documentURL,
	}, nil
}

type mockProtocolRepo struct {
	nextFunc func(ctx context.Context, dateKey string) (int, error)
	calls    int
}

func (m *mockProtocolRepo) Next(ctx context.Context, dateKey string) (int, error) {
	m.calls++
	if m.nextFunc != nil {
		return m.nextFunc(ctx, dateKey)
	}
	return m.calls, nil
}

type mockTxManager struct {
	runInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.runInTxFunc != nil {
		return m.runInTxFunc(ctx, fn)
	}
	// Default: pass-through
	return fn(ctx)
}

type mockAnalyzer struct {
	analyzeFunc func(ctx context.Context, req analysis.Request) (*analysis.Result, error)
	requests    []analysis.Request
}

func (m *mockAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	m.requests = append(m.requests, req)
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, req)
	}
	return &analysis.Result{Status: domain.StatusAwaitingConfirmation}, nil
}

type mockDocumentStore struct {
	putFunc func(ctx context.Context, name string, content []byte, contentType string) error
	stored  map[string][]byte
}

func (m *mockDocumentStore) Put(ctx context.Context, name string, content []byte, contentType string) error {
	if m.putFunc != nil {
		return m.putFunc(ctx, name, content, contentType)
	}
	if m.stored == nil {
		m.stored = map[string][]byte{}
	}
	m.stored[name] = content
	return nil
}

type mockRenderer struct {
	renderFunc func(occ *domain.Occurrence, protocol string) ([]byte, error)
}

func (m *mockRenderer) Render(occ *domain.Occurrence, protocol string) ([]byte, error) {
	if m.renderFunc != nil {
		return m.renderFunc(occ, protocol)
	}
	return []byte("<html>" + protocol + "</html>"), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type testDeps struct {
	occurrences *mockOccurrenceRepo
	protocols   *mockProtocolRepo
	tx          *mockTxManager
	analyzer    *mockAnalyzer
	documents   *mockDocumentStore
	renderer    *mockRenderer
}

func newTestService(t *testing.T, deps testDeps) *Service {
	t.Helper()

	if deps.occurrences == nil {
		deps.occurrences = &mockOccurrenceRepo{}
	}
	if deps.protocols == nil {
		deps.protocols = &mockProtocolRepo{}
	}
	if deps.tx == nil {
		deps.tx = &mockTxManager{}
	}
	if deps.analyzer == nil {
		deps.analyzer = &mockAnalyzer{}
	}
	if deps.documents == nil {
		deps.documents = &mockDocumentStore{}
	}
	if deps.renderer == nil {
		deps.renderer = &mockRenderer{}
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewService(
		logger,
		deps.occurrences, deps.protocols, deps.tx,
		deps.analyzer, deps.documents, deps.renderer,
		config.ProtocolConfig{Prefix: "IMAGO"},
		config.DocumentConfig{BaseURL: "/api/v1/documents"},
	)
}

func buildOccurrence(status domain.Status) *domain.Occurrence {
	now := time.Now().UTC()
	return &domain.Occurrence{
		ID:                uuid.New(),
		ReporterName:      "Maria Silva",
		ReporterPhone:     "83999999999",
		ReporterBirthdate: time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC),
		Category:          domain.CategoryClinical,
		Reason:            "Patient waiting 5 days for exam results",
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.Status) *domain.Status { return &s }
