package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/imago-sys/occurrence-backend/pkg/ctxutil"
)

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	var ctxID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = ctxutil.RequestIDFromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	headerID := rec.Header().Get("X-Request-Id")
	if headerID == "" {
		t.Fatalf("response missing X-Request-Id")
	}
	if _, err := uuid.Parse(headerID); err != nil {
		t.Errorf("generated id %q is not a UUID", headerID)
	}
	if ctxID != headerID {
		t.Errorf("context id %q != header id %q", ctxID, headerID)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	var ctxID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = ctxutil.RequestIDFromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "client-supplied-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if ctxID != "client-supplied-id" {
		t.Errorf("context id = %q, want client value", ctxID)
	}
	if rec.Header().Get("X-Request-Id") != "client-supplied-id" {
		t.Errorf("header must echo the client id")
	}
}
