package occurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// CreateInput holds the parameters for registering a new occurrence.
type CreateInput struct {
	ReporterName      string
	ReporterPhone     string
	ReporterBirthdate string // YYYY-MM-DD
	Category          string
	Reason            string
}

// birthdate bounds: not in the future, not before 1900.
var birthdateFloor = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate() error {
	var errs []domain.FieldError

	if len(strings.TrimSpace(i.ReporterName)) < 3 {
		errs = append(errs, domain.FieldError{Field: "reporter_name", Message: "too short (min 3)"})
	}
	if len(strings.TrimSpace(i.ReporterPhone)) < 10 {
		errs = append(errs, domain.FieldError{Field: "reporter_phone", Message: "too short (min 10)"})
	}

	if _, err := i.parseBirthdate(); err != nil {
		errs = append(errs, domain.FieldError{Field: "reporter_birthdate", Message: err.Error()})
	}

	if !domain.Category(i.Category).IsValid() {
		errs = append(errs, domain.FieldError{
			Field:   "category",
			Message: fmt.Sprintf("must be one of %v", domain.Categories()),
		})
	}
	if len(strings.TrimSpace(i.Reason)) < 10 {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "too short (min 10)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i *CreateInput) parseBirthdate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", i.ReporterBirthdate)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be a date in YYYY-MM-DD format")
	}
	if t.After(time.Now().UTC()) {
		return time.Time{}, fmt.Errorf("must not be in the future")
	}
	if t.Before(birthdateFloor) {
		return time.Time{}, fmt.Errorf("must not be before 1900")
	}
	return t, nil
}

// ListInput holds the optional filters for listing occurrences.
type ListInput struct {
	Status   string
	Category string
}

// Validate checks the filter values against the domain enums.
func (i *ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Status != "" && !domain.Status(i.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}
	if i.Category != "" && !domain.Category(i.Category).IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "unknown category"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// filter converts validated input to a domain filter.
func (i *ListInput) filter() domain.OccurrenceFilter {
	var f domain.OccurrenceFilter
	if i.Status != "" {
		s := domain.Status(i.Status)
		f.Status = &s
	}
	if i.Category != "" {
		c := domain.Category(i.Category)
		f.Category = &c
	}
	return f
}

// UpdateInput holds the fields an operator may change on an occurrence.
// Nil pointers mean "leave unchanged".
type UpdateInput struct {
	AdminNote        *string
	AISummary        *string
	AIClassification *string
	AIConclusion     *string
	Status           *domain.Status
	ProtocolNumber   *string
	DocumentURL      *string
}

// Validate checks all fields and collects all errors. Transition legality
// against the current status is checked by the service, not here.
func (i *UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}
	if i.AdminNote != nil && len(*i.AdminNote) > 5000 {
		errs = append(errs, domain.FieldError{Field: "admin_note", Message: "too long (max 5000)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// empty reports whether the input changes nothing.
func (i *UpdateInput) empty() bool {
	return i.AdminNote == nil && i.AISummary == nil && i.AIClassification == nil &&
		i.AIConclusion == nil && i.Status == nil &&
		i.ProtocolNumber == nil && i.DocumentURL == nil
}

// SubmitInput holds the parameters for submitting an occurrence to analysis.
type SubmitInput struct {
	AdminNote string
}

// Validate checks all fields and collects all errors.
func (i *SubmitInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.AdminNote) == "" {
		errs = append(errs, domain.FieldError{Field: "admin_note", Message: "required"})
	} else if len(i.AdminNote) > 5000 {
		errs = append(errs, domain.FieldError{Field: "admin_note", Message: "too long (max 5000)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
