// Package analysis is the adapter for the external AI analysis webhook.
// The webhook is a loosely-specified collaborator: every field of its
// response is optional and the response shape is validated and coerced
// rather than trusted.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/internal/config"
	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// Provider posts occurrence data to the analysis webhook and returns the
// parsed result. A single attempt per invocation; the caller owns rollback.
type Provider struct {
	webhookURL string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider from AnalysisConfig.
func NewProvider(cfg config.AnalysisConfig, logger *slog.Logger) *Provider {
	return &Provider{
		webhookURL: cfg.WebhookURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "analysis"),
	}
}

// Request is the fixed-shape payload sent to the webhook.
type Request struct {
	OccurrenceID      uuid.UUID `json:"occurrence_id"`
	Category          string    `json:"category"`
	Reason            string    `json:"reason"`
	AdminNote         string    `json:"admin_note"`
	ReporterName      string    `json:"reporter_name"`
	ReporterPhone     string    `json:"reporter_phone"`
	ReporterBirthdate string    `json:"reporter_birthdate"` // YYYY-MM-DD
	CreatedAt         time.Time `json:"created_at"`
}

// NewRequest builds the webhook payload from an occurrence and the operator
// note being submitted with it.
func NewRequest(occ *domain.Occurrence, adminNote string) Request {
	return Request{
		OccurrenceID:      occ.ID,
		Category:          occ.Category.String(),
		Reason:            occ.Reason,
		AdminNote:         adminNote,
		ReporterName:      occ.ReporterName,
		ReporterPhone:     occ.ReporterPhone,
		ReporterBirthdate: occ.ReporterBirthdate.Format("2006-01-02"),
		CreatedAt:         occ.CreatedAt,
	}
}

// Analyze performs the webhook round trip. Any transport error, non-2xx
// status, or malformed body is reported as domain.ErrExternalCollaborator.
func (p *Provider) Analyze(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("analysis: marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("analysis: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	p.log.DebugContext(ctx, "analysis request",
		slog.String("occurrence_id", req.OccurrenceID.String()),
		slog.String("url", p.webhookURL),
	)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		p.log.ErrorContext(ctx, "analysis request failed",
			slog.String("occurrence_id", req.OccurrenceID.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("analysis: request failed: %v: %w", err, domain.ErrExternalCollaborator)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("analysis: unexpected status %d: %w", resp.StatusCode, domain.ErrExternalCollaborator)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("analysis: read body: %v: %w", err, domain.ErrExternalCollaborator)
	}

	result, err := parseResult(raw)
	if err != nil {
		return nil, fmt.Errorf("analysis: %v: %w", err, domain.ErrExternalCollaborator)
	}

	p.log.DebugContext(ctx, "analysis response",
		slog.String("occurrence_id", req.OccurrenceID.String()),
		slog.Int("status", resp.StatusCode),
		slog.String("result_status", result.Status.String()),
	)

	return result, nil
}
