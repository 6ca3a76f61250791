package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

type statsService interface {
	Dashboard(ctx context.Context, period string) (*domain.DashboardStats, error)
}

// StatsHandler serves the dashboard statistics endpoint.
type StatsHandler struct {
	stats statsService
	log   *slog.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stats statsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		stats: stats,
		log:   logger.With("handler", "stats"),
	}
}

// Dashboard returns aggregate occurrence statistics for a period.
// GET /api/v1/admin/dashboard/stats?period=30d
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Dashboard(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
