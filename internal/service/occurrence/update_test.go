package occurrence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

func TestService_Update_Success(t *testing.T) {
	t.Parallel()

	occ := buildOccurrence(domain.StatusOpen)
	var gotFields map[string]any

	repo := &mockOccurrenceRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
			return occ, nil
		},
		updateFieldsFunc: func(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Occurrence, error) {
			gotFields = fields
			return occ, nil
		},
	}
	svc := newTestService(t, testDeps{occurrences: repo})

	_, err := svc.Update(context.Background(), occ.ID, UpdateInput{
		AdminNote: strPtr("please escalate"),
		Status:    statusPtr(domain.StatusInAnalysis),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotFields["admin_note"] != "please escalate" {
		t.Errorf("admin_note not forwarded: %+v", gotFields)
	}
	if gotFields["status"] != "in_analysis" {
		t.Errorf("status not forwarded: %+v", gotFields)
	}
}

func TestService_Update_IllegalTransition(t *testing.T) {
	t.Parallel()

	occ := buildOccurrence(domain.StatusOpen)
	repo := &mockOccurrenceRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
			return occ, nil
		},
	}
	svc := newTestService(t, testDeps{occurrences: repo})

	_, err := svc.Update(context.Background(), occ.ID, UpdateInput{
		Status: statusPtr(domain.StatusAwaitingConfirmation),
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestService_Update_FinalizedIsTerminal(t *testing.T) {
	t.Parallel()

	occ := buildOccurrence(domain.StatusFinalized)
	repo := &mockOccurrenceRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
			return occ, nil
		},
	}
	svc := newTestService(t, testDeps{occurrences: repo})

	_, err := svc.Update(context.Background(), occ.ID, UpdateInput{
		Status: statusPtr(domain.StatusOpen),
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestService_Update_UnknownStatus(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testDeps{})

	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{
		Status: statusPtr(domain.Status("closed")),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestService_Update_DocumentPairInvariant(t *testing.T) {
	t.Parallel()

	occ := buildOccurrence(domain.StatusAwaitingConfirmation)
	repo := &mockOccurrenceRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
			return occ, nil
		},
	}
	svc := newTestService(t, testDeps{occurrences: repo})

	// Setting only one half of the pair is rejected.
	_, err := svc.Update(context.Background(), occ.ID, UpdateInput{
		ProtocolNumber: strPtr("IMAGO-20260830-0001"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unpaired protocol, got %v", err)
	}

	// Setting both together passes.
	_, err = svc.Update(context.Background(), occ.ID, UpdateInput{
		ProtocolNumber: strPtr("IMAGO-20260830-0001"),
		DocumentURL:    strPtr("/api/v1/documents/IMAGO-20260830-0001.html"),
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestService_Update_EmptyInputIsNoop(t *testing.T) {
	t.Parallel()

	occ := buildOccurrence(domain.StatusOpen)
	updateCalled := false
	repo := &mockOccurrenceRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
			return occ, nil
		},
		updateFieldsFunc: func(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Occurrence, error) {
			updateCalled = true
			return occ, nil
		},
	}
	svc := newTestService(t, testDeps{occurrences: repo})

	got, err := svc.Update(context.Background(), occ.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updateCalled {
		t.Errorf("empty update must not hit the repository")
	}
	if got != occ {
		t.Errorf("expected current occurrence returned")
	}
}

func TestService_Update_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testDeps{})

	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{
		AdminNote: strPtr("note"),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
