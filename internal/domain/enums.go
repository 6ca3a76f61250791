package domain

// Status represents the lifecycle state of an occurrence.
type Status string

const (
	StatusOpen                 Status = "open"
	StatusInAnalysis           Status = "in_analysis"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusFinalized            Status = "finalized"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInAnalysis, StatusAwaitingConfirmation, StatusFinalized:
		return true
	}
	return false
}

// CanTransitionTo reports whether the edge s -> to exists in the lifecycle
// graph. The graph is open -> in_analysis -> awaiting_confirmation ->
// finalized, with the single back edge in_analysis -> open (analysis
// failure). finalized is terminal.
func (s Status) CanTransitionTo(to Status) bool {
	switch s {
	case StatusOpen:
		return to == StatusInAnalysis
	case StatusInAnalysis:
		return to == StatusAwaitingConfirmation || to == StatusOpen || to == StatusInAnalysis
	case StatusAwaitingConfirmation:
		return to == StatusFinalized
	case StatusFinalized:
		return false
	}
	return false
}

// Category represents the classification tag of an occurrence, chosen at
// creation and immutable afterward.
type Category string

const (
	CategoryAdministrative Category = "Administrative"
	CategoryClinical       Category = "Clinical"
	CategoryLegal          Category = "Legal"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryAdministrative, CategoryClinical, CategoryLegal:
		return true
	}
	return false
}

// Categories lists all valid categories, for validation messages.
func Categories() []Category {
	return []Category{CategoryAdministrative, CategoryClinical, CategoryLegal}
}
