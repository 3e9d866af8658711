package scalev

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := New(ts.URL, "test-key", "store-1", zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, ts
}

func TestNew(t *testing.T) {
	client, err := New("https://scalev.test", "key", "store", zap.NewNop())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if client.BaseURL != "https://scalev.test" {
		t.Errorf("Expected BaseURL to be 'https://scalev.test', got '%s'", client.BaseURL)
	}
	if client.StoreID != "store" {
		t.Errorf("Expected StoreID to be 'store', got '%s'", client.StoreID)
	}
}

func TestNewDefaults(t *testing.T) {
	client, err := New("", "key", "store", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if client.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got '%s'", client.BaseURL)
	}
}

func TestNewMissingCredentials(t *testing.T) {
	if _, err := New("https://scalev.test", "", "store", nil); err == nil {
		t.Error("Expected error for missing API key")
	}
	if _, err := New("https://scalev.test", "key", "", nil); err == nil {
		t.Error("Expected error for missing store ID")
	}
}

func TestClientSendsAuthorization(t *testing.T) {
	var gotAuth, gotAccept string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept-Encoding")
		w.Write([]byte(`{"code":200,"status":"ok","data":{"id":1}}`))
	}))

	if _, err := client.Store(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if gotAccept != "br" {
		t.Errorf("Expected Accept-Encoding br, got %q", gotAccept)
	}
}

func TestStoreQueriesByStoreID(t *testing.T) {
	var gotPath, gotSearch string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSearch = r.URL.Query().Get("search")
		w.Write([]byte(`{"code":200,"status":"ok","data":{"unique_id":"store-1"}}`))
	}))

	data, err := client.Store(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotPath != "/stores/simplified" {
		t.Errorf("Expected path /stores/simplified, got %s", gotPath)
	}
	if gotSearch != "store-1" {
		t.Errorf("Expected search=store-1, got %q", gotSearch)
	}
	if string(data) != `{"unique_id":"store-1"}` {
		t.Errorf("Unexpected store data: %s", data)
	}
}
