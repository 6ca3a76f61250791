package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// SeedOccurrence inserts an occurrence in the given status and returns it.
// Reporter fields are filled with plausible defaults; the admin note is set
// for any status past open, and the protocol/document pair for finalized.
func SeedOccurrence(t *testing.T, pool *pgxpool.Pool, status domain.Status) domain.Occurrence {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	occ := domain.Occurrence{
		ID:                uuid.New(),
		ReporterName:      "Maria Silva",
		ReporterPhone:     "83999999999",
		ReporterBirthdate: time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC),
		Category:          domain.CategoryAdministrative,
		Reason:            "Patient waiting 5 days for exam results",
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if status != domain.StatusOpen {
		note := "escalate to lab"
		occ.AdminNote = &note
	}
	if status == domain.StatusAwaitingConfirmation || status == domain.StatusFinalized {
		occ.AISummary = "Delay confirmed"
		occ.AIClassification = "Administrative-Delay"
	}
	if status == domain.StatusFinalized {
		protocol := "IMAGO-20250101-0001-" + occ.ID.String()[:8]
		docURL := "/api/v1/documents/" + protocol + ".html"
		occ.ProtocolNumber = &protocol
		occ.DocumentURL = &docURL
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO occurrences (
			id, reporter_name, reporter_phone, reporter_birthdate, category, reason,
			admin_note, status, ai_summary, ai_classification, ai_conclusion,
			protocol_number, document_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		occ.ID, occ.ReporterName, occ.ReporterPhone, occ.ReporterBirthdate,
		string(occ.Category), occ.Reason, occ.AdminNote, string(occ.Status),
		occ.AISummary, occ.AIClassification, occ.AIConclusion,
		occ.ProtocolNumber, occ.DocumentURL, occ.CreatedAt, occ.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedOccurrence insert: %v", err)
	}

	return occ
}
