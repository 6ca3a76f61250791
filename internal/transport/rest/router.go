package rest

import (
	"net/http"

	"github.com/imago-sys/occurrence-backend/internal/config"
	"github.com/imago-sys/occurrence-backend/internal/transport/middleware"
)

// RouterDeps holds everything the router needs.
type RouterDeps struct {
	Intake    *IntakeHandler
	Admin     *AdminHandler
	Stats     *StatsHandler
	Documents *DocumentsHandler
	Health    *HealthHandler
	Auth      config.AuthConfig
}

// NewRouter assembles the HTTP mux. The intake endpoint is gated by the
// shared secret, the admin surface by a bearer token; documents and health
// probes are public.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	intakeGate := middleware.SharedSecret(deps.Auth.IntakeSharedSecret)
	adminGate := middleware.AdminJWT(deps.Auth)

	mux.Handle("POST /api/v1/occurrences", intakeGate(http.HandlerFunc(deps.Intake.Create)))

	mux.Handle("GET /api/v1/admin/occurrences", adminGate(http.HandlerFunc(deps.Admin.List)))
	mux.Handle("GET /api/v1/admin/occurrences/{id}", adminGate(http.HandlerFunc(deps.Admin.Get)))
	mux.Handle("PATCH /api/v1/admin/occurrences/{id}", adminGate(http.HandlerFunc(deps.Admin.Update)))
	mux.Handle("POST /api/v1/admin/occurrences/{id}/submit-analysis", adminGate(http.HandlerFunc(deps.Admin.SubmitAnalysis)))
	mux.Handle("POST /api/v1/admin/occurrences/{id}/finalize", adminGate(http.HandlerFunc(deps.Admin.Finalize)))
	mux.Handle("GET /api/v1/admin/dashboard/stats", adminGate(http.HandlerFunc(deps.Stats.Dashboard)))

	mux.HandleFunc("GET /api/v1/documents/{name}", deps.Documents.Get)

	mux.HandleFunc("GET /health", deps.Health.Health)
	mux.HandleFunc("GET /health/live", deps.Health.Live)
	mux.HandleFunc("GET /health/ready", deps.Health.Ready)

	return mux
}
