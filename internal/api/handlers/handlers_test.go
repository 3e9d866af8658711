package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"course-store/internal/providers/scalev"
)

// newUpstream spins up a fake Scalev API and a client pointed at it.
func newUpstream(t *testing.T, handler http.Handler) *scalev.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := scalev.New(ts.URL, "test-key", "store-1", zap.NewNop())
	if err != nil {
		t.Fatalf("scalev.New: %v", err)
	}
	return client
}
