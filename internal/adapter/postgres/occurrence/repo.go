// Package occurrence implements the Occurrence repository using PostgreSQL.
// Besides plain CRUD it provides the guarded status-transition updates that
// serialize concurrent writes to a single occurrence row: every transition
// is a conditional UPDATE whose WHERE clause names the states the transition
// is legal from, so two racing operators cannot interleave into an
// inconsistent status.
package occurrence

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/imago-sys/occurrence-backend/internal/adapter/postgres"
	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// Repo provides occurrence persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new occurrence repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const occurrenceColumns = `id, reporter_name, reporter_phone, reporter_birthdate, category, reason,
	admin_note, status, ai_summary, ai_classification, ai_conclusion,
	protocol_number, document_url, created_at, updated_at`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const getByIDSQL = `SELECT ` + occurrenceColumns + ` FROM occurrences WHERE id = $1`

// GetByID returns an occurrence by primary key.
// Returns domain.ErrNotFound if no such occurrence exists.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	occ, err := scanOccurrence(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "occurrence", id)
	}
	return occ, nil
}

// List returns occurrences matching the filter, newest created first.
func (r *Repo) List(ctx context.Context, filter domain.OccurrenceFilter) ([]*domain.Occurrence, error) {
	builder := sq.Select(occurrenceColumns).
		From("occurrences").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": string(*filter.Status)})
	}
	if filter.Category != nil {
		builder = builder.Where(sq.Eq{"category": string(*filter.Category)})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	return r.queryMany(ctx, sql, args...)
}

const listCreatedSinceSQL = `SELECT ` + occurrenceColumns + `
	FROM occurrences WHERE created_at >= $1 ORDER BY created_at DESC`

// ListCreatedSince returns occurrences created at or after the given instant,
// newest first. Used by the dashboard aggregation.
func (r *Repo) ListCreatedSince(ctx context.Context, since time.Time) ([]*domain.Occurrence, error) {
	return r.queryMany(ctx, listCreatedSinceSQL, since)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createSQL = `INSERT INTO occurrences (
	id, reporter_name, reporter_phone, reporter_birthdate, category, reason,
	status, ai_summary, ai_classification, ai_conclusion, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, '', '', '', $8, $8)
RETURNING ` + occurrenceColumns

// Create inserts a new occurrence and returns the persisted row.
func (r *Repo) Create(ctx context.Context, occ *domain.Occurrence) (*domain.Occurrence, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanOccurrence(q.QueryRow(ctx, createSQL,
		occ.ID, occ.ReporterName, occ.ReporterPhone, occ.ReporterBirthdate,
		string(occ.Category), occ.Reason, string(occ.Status), occ.CreatedAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, "occurrence", occ.ID)
	}
	return created, nil
}

// UpdateFields applies a partial update over the mutable column set and
// returns the updated row. The caller is responsible for restricting fields
// to domain.MutableFields; this method trusts its input.
func (r *Repo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Occurrence, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	builder := sq.Update("occurrences").
		SetMap(fields).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + occurrenceColumns).
		PlaceholderFormat(sq.Dollar)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	occ, err := scanOccurrence(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "occurrence", id)
	}
	return occ, nil
}

// ---------------------------------------------------------------------------
// Guarded transitions
// ---------------------------------------------------------------------------

const markInAnalysisSQL = `UPDATE occurrences
	SET admin_note = $2, status = 'in_analysis', updated_at = $3
	WHERE id = $1 AND status IN ('open', 'in_analysis')
	RETURNING ` + occurrenceColumns

// MarkInAnalysis persists the operator note and moves the occurrence to
// in_analysis. Legal only from open or in_analysis.
func (r *Repo) MarkInAnalysis(ctx context.Context, id uuid.UUID, adminNote string) (*domain.Occurrence, error) {
	return r.guarded(ctx, id, domain.StatusInAnalysis, markInAnalysisSQL, id, adminNote, time.Now().UTC())
}

const applyAnalysisSQL = `UPDATE occurrences
	SET ai_summary = $2, ai_classification = $3, ai_conclusion = $4, status = $5, updated_at = $6
	WHERE id = $1 AND status = 'in_analysis'
	RETURNING ` + occurrenceColumns

// ApplyAnalysis writes the collaborator's response fields together with the
// resulting status in a single update. Legal only from in_analysis.
func (r *Repo) ApplyAnalysis(ctx context.Context, id uuid.UUID, summary, classification, conclusion string, status domain.Status) (*domain.Occurrence, error) {
	return r.guarded(ctx, id, status, applyAnalysisSQL,
		id, summary, classification, conclusion, string(status), time.Now().UTC())
}

const revertToOpenSQL = `UPDATE occurrences
	SET status = 'open', updated_at = $2
	WHERE id = $1 AND status = 'in_analysis'
	RETURNING ` + occurrenceColumns

// RevertToOpen rolls an occurrence back from in_analysis to open, keeping
// the admin note and any previously stored AI fields untouched.
func (r *Repo) RevertToOpen(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
	return r.guarded(ctx, id, domain.StatusOpen, revertToOpenSQL, id, time.Now().UTC())
}

const finalizeSQL = `UPDATE occurrences
	SET status = 'finalized', protocol_number = $2, document_url = $3, updated_at = $4
	WHERE id = $1 AND status = 'awaiting_confirmation'
	RETURNING ` + occurrenceColumns

// Finalize stamps the protocol number and document URL and moves the
// occurrence to its terminal state, all in one atomic update. Legal only
// from awaiting_confirmation; a second finalize of the same occurrence
// loses the WHERE race and surfaces ErrInvalidState.
func (r *Repo) Finalize(ctx context.Context, id uuid.UUID, protocolNumber, documentURL string) (*domain.Occurrence, error) {
	return r.guarded(ctx, id, domain.StatusFinalized, finalizeSQL,
		id, protocolNumber, documentURL, time.Now().UTC())
}

// guarded runs a conditional transition update. When the guard matches no
// row, the occurrence either does not exist (ErrNotFound) or sits in a state
// the transition is not legal from (TransitionError with the actual status).
func (r *Repo) guarded(ctx context.Context, id uuid.UUID, target domain.Status, sql string, args ...any) (*domain.Occurrence, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	occ, err := scanOccurrence(q.QueryRow(ctx, sql, args...))
	if err == nil {
		return occ, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, postgres.MapError(err, "occurrence", id)
	}

	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("occurrence %s: %w", id, &domain.TransitionError{From: current.Status, To: target})
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func (r *Repo) queryMany(ctx context.Context, sql string, args ...any) ([]*domain.Occurrence, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "occurrences", "list")
	}
	defer rows.Close()

	occurrences := []*domain.Occurrence{}
	for rows.Next() {
		occ, err := scanOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		occurrences = append(occurrences, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "occurrences", "list")
	}

	return occurrences, nil
}

// scanOccurrence reads one occurrence row from either pgx.Row or pgx.Rows.
func scanOccurrence(row pgx.Row) (*domain.Occurrence, error) {
	var (
		occ      domain.Occurrence
		category string
		status   string
	)

	err := row.Scan(
		&occ.ID, &occ.ReporterName, &occ.ReporterPhone, &occ.ReporterBirthdate,
		&category, &occ.Reason, &occ.AdminNote, &status,
		&occ.AISummary, &occ.AIClassification, &occ.AIConclusion,
		&occ.ProtocolNumber, &occ.DocumentURL, &occ.CreatedAt, &occ.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	occ.Category = domain.Category(category)
	occ.Status = domain.Status(status)
	return &occ, nil
}
