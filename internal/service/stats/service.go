// Package stats aggregates occurrences into the dashboard report.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

type occurrenceRepo interface {
	ListCreatedSince(ctx context.Context, since time.Time) ([]*domain.Occurrence, error)
}

type protocolRepo interface {
	Current(ctx context.Context, dateKey string) (int, error)
}

// Service computes dashboard statistics over a reporting period.
type Service struct {
	log         *slog.Logger
	occurrences occurrenceRepo
	protocols   protocolRepo
}

// NewService creates a new Stats service.
func NewService(logger *slog.Logger, occurrences occurrenceRepo, protocols protocolRepo) *Service {
	return &Service{
		log:         logger.With("service", "stats"),
		occurrences: occurrences,
		protocols:   protocols,
	}
}

// periods maps the accepted period tokens to their length.
var periods = map[string]time.Duration{
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

const defaultPeriod = "30d"

// Dashboard returns aggregate counts for occurrences created within the
// given period. An empty period defaults to 30d; an unknown period is a
// validation error.
func (s *Service) Dashboard(ctx context.Context, period string) (*domain.DashboardStats, error) {
	if period == "" {
		period = defaultPeriod
	}
	window, ok := periods[period]
	if !ok {
		return nil, domain.NewValidationError("period", "must be one of 7d, 30d, 90d")
	}

	since := time.Now().UTC().Add(-window)
	occurrences, err := s.occurrences.ListCreatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list occurrences since %s: %w", since.Format(time.RFC3339), err)
	}

	protocolsToday, err := s.protocols.Current(ctx, time.Now().UTC().Format("20060102"))
	if err != nil {
		return nil, fmt.Errorf("current protocol counter: %w", err)
	}

	stats := &domain.DashboardStats{
		Total:          len(occurrences),
		ProtocolsToday: protocolsToday,
	}

	byCategory := map[string]int{}
	byDate := map[string]int{}
	for _, occ := range occurrences {
		switch occ.Status {
		case domain.StatusOpen:
			stats.Open++
		case domain.StatusInAnalysis:
			stats.InAnalysis++
		case domain.StatusAwaitingConfirmation:
			stats.AwaitingConfirmation++
		case domain.StatusFinalized:
			stats.Finalized++
		}
		byCategory[occ.Category.String()]++
		byDate[occ.CreatedAt.UTC().Format("2006-01-02")]++
	}

	for name, value := range byCategory {
		stats.ByCategory = append(stats.ByCategory, domain.CountByName{Name: name, Value: value})
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		return stats.ByCategory[i].Name < stats.ByCategory[j].Name
	})

	stats.ByStatus = []domain.CountByName{
		{Name: domain.StatusOpen.String(), Value: stats.Open},
		{Name: domain.StatusInAnalysis.String(), Value: stats.InAnalysis},
		{Name: domain.StatusAwaitingConfirmation.String(), Value: stats.AwaitingConfirmation},
		{Name: domain.StatusFinalized.String(), Value: stats.Finalized},
	}

	for date, count := range byDate {
		stats.ByDate = append(stats.ByDate, domain.CountByDate{Date: date, Count: count})
	}
	sort.Slice(stats.ByDate, func(i, j int) bool {
		return stats.ByDate[i].Date < stats.ByDate[j].Date
	})

	s.log.DebugContext(ctx, "dashboard stats computed",
		slog.String("period", period),
		slog.Int("total", stats.Total),
	)

	return stats, nil
}
