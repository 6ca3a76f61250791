package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/config"
	"github.com/imago-sys/occurrence-backend/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProvider(url string) *Provider {
	return NewProvider(config.AnalysisConfig{WebhookURL: url, Timeout: 5 * time.Second}, newTestLogger())
}

func testRequest() Request {
	note := "check with the lab"
	occ := &domain.Occurrence{
		ID:                uuid.New(),
		ReporterName:      "Maria Silva",
		ReporterPhone:     "83999999999",
		ReporterBirthdate: time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC),
		Category:          domain.CategoryClinical,
		Reason:            "Patient waiting 5 days for exam results",
		CreatedAt:         time.Now().UTC(),
	}
	return NewRequest(occ, note)
}

func TestProvider_Analyze_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		for _, field := range []string{"occurrence_id", "category", "reason", "admin_note",
			"reporter_name", "reporter_phone", "reporter_birthdate", "created_at"} {
			if _, ok := payload[field]; !ok {
				t.Errorf("payload missing %q", field)
			}
		}
		if payload["reporter_birthdate"] != "1990-03-15" {
			t.Errorf("reporter_birthdate = %v", payload["reporter_birthdate"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"summary":"delay confirmed","classification":"Administrative-Delay","conclusion":"escalate","status":"awaiting_confirmation"}`))
	}))
	defer srv.Close()

	result, err := newTestProvider(srv.URL).Analyze(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Summary != "delay confirmed" {
		t.Errorf("Summary = %q", result.Summary)
	}
	if result.Classification != "Administrative-Delay" {
		t.Errorf("Classification = %q", result.Classification)
	}
	if result.Status != domain.StatusAwaitingConfirmation {
		t.Errorf("Status = %s", result.Status)
	}
}

func TestProvider_Analyze_PartialResponseDefaults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summary":"only a summary"}`))
	}))
	defer srv.Close()

	result, err := newTestProvider(srv.URL).Analyze(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Summary != "only a summary" {
		t.Errorf("Summary = %q", result.Summary)
	}
	if result.Classification != "" || result.Conclusion != "" {
		t.Errorf("absent fields must default to empty, got %+v", result)
	}
	if result.Status != domain.StatusAwaitingConfirmation {
		t.Errorf("absent status must default to awaiting_confirmation, got %s", result.Status)
	}
}

func TestProvider_Analyze_StatusCoercion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		wire string
		want domain.Status
	}{
		{"awaiting_confirmation", domain.StatusAwaitingConfirmation},
		{"open", domain.StatusOpen},
		{"finalized", domain.StatusAwaitingConfirmation},
		{"in_analysis", domain.StatusAwaitingConfirmation},
		{"garbage", domain.StatusAwaitingConfirmation},
		{"", domain.StatusAwaitingConfirmation},
	}

	for _, tc := range cases {
		t.Run("status "+tc.wire, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"status": tc.wire}) //nolint:errcheck
			}))
			defer srv.Close()

			result, err := newTestProvider(srv.URL).Analyze(context.Background(), testRequest())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != tc.want {
				t.Errorf("status %q coerced to %s, want %s", tc.wire, result.Status, tc.want)
			}
		})
	}
}

func TestProvider_Analyze_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Analyze(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrExternalCollaborator) {
		t.Errorf("expected ErrExternalCollaborator, got %v", err)
	}
}

func TestProvider_Analyze_MalformedBody(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{"summary": `},
		{"array", `[{"summary":"x"}]`},
		{"scalar", `"ok"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestProvider(srv.URL).Analyze(context.Background(), testRequest())
			if !errors.Is(err, domain.ErrExternalCollaborator) {
				t.Errorf("expected ErrExternalCollaborator, got %v", err)
			}
		})
	}
}

func TestProvider_Analyze_TransportError(t *testing.T) {
	t.Parallel()

	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestProvider(srv.URL).Analyze(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrExternalCollaborator) {
		t.Errorf("expected ErrExternalCollaborator, got %v", err)
	}
}
