//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imago-sys/occurrence-backend/internal/adapter/postgres"
	occurrencerepo "github.com/imago-sys/occurrence-backend/internal/adapter/postgres/occurrence"
	protocolrepo "github.com/imago-sys/occurrence-backend/internal/adapter/postgres/protocol"
	"github.com/imago-sys/occurrence-backend/internal/adapter/postgres/testhelper"
	"github.com/imago-sys/occurrence-backend/internal/adapter/provider/analysis"
	"github.com/imago-sys/occurrence-backend/internal/blob/memory"
	"github.com/imago-sys/occurrence-backend/internal/config"
	"github.com/imago-sys/occurrence-backend/internal/document"
	occservice "github.com/imago-sys/occurrence-backend/internal/service/occurrence"
	statsservice "github.com/imago-sys/occurrence-backend/internal/service/stats"
	"github.com/imago-sys/occurrence-backend/internal/transport/middleware"
	"github.com/imago-sys/occurrence-backend/internal/transport/rest"
)

const (
	testIntakeSecret = "e2e-intake-secret"
	testJWTSecret    = "test-secret-at-least-32-chars-long!!"
	testJWTIssuer    = "test-issuer"
)

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper). The analysis collaborator is
// replaced by the given handler; pass nil for a webhook that always returns
// an empty analysis.
func setupTestServer(t *testing.T, webhook http.HandlerFunc) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	if webhook == nil {
		webhook = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}
	}
	webhookSrv := httptest.NewServer(webhook)
	t.Cleanup(webhookSrv.Close)

	occRepo := occurrencerepo.New(pool)
	protoRepo := protocolrepo.New(pool)
	analyzer := analysis.NewProvider(config.AnalysisConfig{
		WebhookURL: webhookSrv.URL,
		Timeout:    10 * time.Second,
	}, logger)
	documents := memory.New()
	renderer := document.NewRenderer()

	authCfg := config.AuthConfig{
		IntakeSharedSecret: testIntakeSecret,
		JWTSecret:          testJWTSecret,
		JWTIssuer:          testJWTIssuer,
		AccessTokenTTL:     15 * time.Minute,
	}

	occService := occservice.NewService(
		logger, occRepo, protoRepo, txm, analyzer, documents, renderer,
		config.ProtocolConfig{Prefix: "IMAGO"},
		config.DocumentConfig{Driver: "memory", BaseURL: "/api/v1/documents"},
	)
	statsService := statsservice.NewService(logger, occRepo, protoRepo)

	router := rest.NewRouter(rest.RouterDeps{
		Intake:    rest.NewIntakeHandler(occService, logger),
		Admin:     rest.NewAdminHandler(occService, logger),
		Stats:     rest.NewStatsHandler(statsService, logger),
		Documents: rest.NewDocumentsHandler(documents, logger),
		Health:    rest.NewHealthHandler(pool, "test-version"),
		Auth:      authCfg,
	})

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,PATCH,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type,X-Shared-Secret",
			AllowCredentials: true,
			MaxAge:           86400,
		}),
	)(router)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
	}
}

// adminToken signs a bearer token accepted by the admin gate.
func adminToken(t *testing.T) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": "e2e-admin@imago.example",
		"iss": testJWTIssuer,
		"exp": time.Now().Add(15 * time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign admin token: %v", err)
	}
	return token
}

// doJSON sends a JSON request and returns status + decoded body. The headers
// map is applied verbatim.
func (ts *testServer) doJSON(t *testing.T, method, path string, body any, headers map[string]string) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	// Auth gates reply with plain text, so decode best effort.
	var result map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

// intake submits an occurrence through the public endpoint and returns its id.
func (ts *testServer) intake(t *testing.T) string {
	t.Helper()

	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/occurrences", map[string]any{
		"reporter_name":      "Maria Silva",
		"reporter_phone":     "83999999999",
		"reporter_birthdate": "1990-03-15",
		"category":           "Clinical",
		"reason":             "Patient waiting 5 days for exam results",
	}, map[string]string{middleware.SharedSecretHeader: testIntakeSecret})
	if status != http.StatusCreated {
		t.Fatalf("intake status = %d, body = %v", status, body)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		t.Fatalf("intake response missing id: %v", body)
	}
	return id
}

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
