package domain

import (
	"time"

	"github.com/google/uuid"
)

// Occurrence is a tracked incident/complaint record. Reporter identity,
// category, and reason are fixed at creation; the remaining fields change
// as the occurrence moves through its lifecycle.
type Occurrence struct {
	ID uuid.UUID

	ReporterName      string
	ReporterPhone     string
	ReporterBirthdate time.Time
	Category          Category
	Reason            string

	// AdminNote is operator-written context forwarded to the analysis
	// collaborator. Nil until an operator sets it.
	AdminNote *string

	Status Status

	// AI* fields are written only from the analysis collaborator's
	// response; empty until an analysis succeeds.
	AISummary        string
	AIClassification string
	AIConclusion     string

	// ProtocolNumber and DocumentURL are stamped together at finalization
	// and never change afterward. Invariant: both nil or both set.
	ProtocolNumber *string
	DocumentURL    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MutableFields is the set of fields the admin update surface may touch.
// Everything else is immutable after creation.
var MutableFields = map[string]struct{}{
	"admin_note":        {},
	"ai_summary":        {},
	"ai_classification": {},
	"ai_conclusion":     {},
	"status":            {},
	"protocol_number":   {},
	"document_url":      {},
}

// OccurrenceFilter narrows occurrence listings. Nil fields match everything.
type OccurrenceFilter struct {
	Status   *Status
	Category *Category
}

// IsFinalized reports whether the occurrence reached its terminal state.
func (o *Occurrence) IsFinalized() bool {
	return o.Status == StatusFinalized
}

// HasDocument reports whether the protocol/document pair has been stamped.
func (o *Occurrence) HasDocument() bool {
	return o.ProtocolNumber != nil && o.DocumentURL != nil
}
