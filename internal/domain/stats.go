package domain

// CountByName is a single named bucket in an aggregation.
type CountByName struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CountByDate is a per-day bucket in the creation trend aggregation.
type CountByDate struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// DashboardStats aggregates occurrences created within a reporting period.
// ProtocolsToday is independent of the period: it reports the current day's
// protocol counter, so it counts finalizations regardless of creation date.
type DashboardStats struct {
	Total                int           `json:"total"`
	ProtocolsToday       int           `json:"protocols_today"`
	Open                 int           `json:"open"`
	InAnalysis           int           `json:"in_analysis"`
	AwaitingConfirmation int           `json:"awaiting_confirmation"`
	Finalized            int           `json:"finalized"`
	ByCategory           []CountByName `json:"by_category"`
	ByStatus             []CountByName `json:"by_status"`
	ByDate               []CountByDate `json:"by_date"`
}
