package occurrence

import (
	"context"
	"errors"
	"testing"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

func TestService_List_ForwardsFilters(t *testing.T) {
	t.Parallel()

	var gotFilter domain.OccurrenceFilter
	repo := &mockOccurrenceRepo{
		listFunc: func(ctx context.Context, filter domain.OccurrenceFilter) ([]*domain.Occurrence, error) {
			gotFilter = filter
			return []*domain.Occurrence{buildOccurrence(domain.StatusOpen)}, nil
		},
	}
	svc := newTestService(t, testDeps{occurrences: repo})

	got, err := svc.List(context.Background(), ListInput{Status: "open", Category: "Legal"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 occurrence, got %d", len(got))
	}
	if gotFilter.Status == nil || *gotFilter.Status != domain.StatusOpen {
		t.Errorf("status filter not forwarded: %+v", gotFilter)
	}
	if gotFilter.Category == nil || *gotFilter.Category != domain.CategoryLegal {
		t.Errorf("category filter not forwarded: %+v", gotFilter)
	}
}

func TestService_List_EmptyFiltersMatchAll(t *testing.T) {
	t.Parallel()

	var gotFilter domain.OccurrenceFilter
	repo := &mockOccurrenceRepo{
		listFunc: func(ctx context.Context, filter domain.OccurrenceFilter) ([]*domain.Occurrence, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	svc := newTestService(t, testDeps{occurrences: repo})

	if _, err := svc.List(context.Background(), ListInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFilter.Status != nil || gotFilter.Category != nil {
		t.Errorf("empty input must produce a nil filter: %+v", gotFilter)
	}
}

func TestService_List_UnknownFilterValues(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testDeps{})

	_, err := svc.List(context.Background(), ListInput{Status: "closed"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown status, got %v", err)
	}

	_, err = svc.List(context.Background(), ListInput{Category: "Financial"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown category, got %v", err)
	}
}
