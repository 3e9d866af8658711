package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
)

const scalevListingBody = `{"code":200,"status":"ok","data":{"results":[{"id":1,"name":"Course A"}]}}`

// scriptedTransport replays a fixed sequence of responses/errors and counts
// how many requests actually went out.
type scriptedTransport struct {
	mu        sync.Mutex
	responses []*http.Response
	errors    []error
	calls     int
}

func (s *scriptedTransport) RoundTrip(*http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.calls >= len(s.responses) {
		return nil, errors.New("scripted transport exhausted")
	}
	resp := s.responses[s.calls]
	err := s.errors[s.calls]
	s.calls++
	return resp, err
}

func newScriptedClient(responses []*http.Response, errs []error) (*http.Client, *scriptedTransport) {
	for len(errs) < len(responses) {
		errs = append(errs, nil)
	}
	tr := &scriptedTransport{responses: responses, errors: errs}
	return &http.Client{Transport: tr}, tr
}

func newMockClient(responses []*http.Response, errs []error) *http.Client {
	client, _ := newScriptedClient(responses, errs)
	return client
}

func newMockResponse(statusCode int, body string, headers map[string]string) *http.Response {
	header := http.Header{}
	for k, v := range headers {
		header.Set(k, v)
	}
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     header,
	}
}

func listingRequest(ctx context.Context) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, "GET", "https://api.scalev.id/v2/products", nil)
}

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Retry5xx:    true,
	}
}

func TestDoWithRetrySuccess(t *testing.T) {
	client := newMockClient([]*http.Response{newMockResponse(200, scalevListingBody, nil)}, nil)

	resp, body, err := DoWithRetry(context.Background(), client, listingRequest, fastRetryConfig(3))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(body) != scalevListingBody {
		t.Errorf("Expected listing body, got %q", string(body))
	}
}

func TestDoWithRetryRecoversFromServerError(t *testing.T) {
	client, tr := newScriptedClient([]*http.Response{
		newMockResponse(502, `{"code":502,"status":"bad gateway"}`, nil),
		newMockResponse(200, scalevListingBody, nil),
	}, nil)

	_, body, err := DoWithRetry(context.Background(), client, listingRequest, fastRetryConfig(3))
	if err != nil {
		t.Fatalf("Expected recovery after retry, got %v", err)
	}
	if string(body) != scalevListingBody {
		t.Errorf("Expected listing body after retry, got %q", string(body))
	}
	if tr.calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", tr.calls)
	}
}

func TestDoWithRetryHonorsRetryAfter(t *testing.T) {
	client := newMockClient([]*http.Response{
		newMockResponse(429, `{"code":429,"status":"rate limited"}`, map[string]string{"Retry-After": "0"}),
		newMockResponse(200, scalevListingBody, nil),
	}, nil)

	cfg := fastRetryConfig(3)
	cfg.RetryStatuses = map[int]bool{429: true}

	_, _, err := DoWithRetry(context.Background(), client, listingRequest, cfg)
	if err != nil {
		t.Errorf("Expected rate-limited call to recover, got %v", err)
	}
}

func TestDoWithRetryDoesNotRetry4xx(t *testing.T) {
	client, tr := newScriptedClient([]*http.Response{
		newMockResponse(404, `{"code":404,"status":"not found"}`, nil),
		newMockResponse(200, scalevListingBody, nil),
	}, nil)

	_, _, err := DoWithRetry(context.Background(), client, listingRequest, fastRetryConfig(3))

	var herr *HTTPError
	if !errors.As(err, &herr) || herr.StatusCode != 404 {
		t.Fatalf("Expected HTTPError 404, got %v", err)
	}
	if tr.calls != 1 {
		t.Errorf("Expected a single attempt for 404, got %d", tr.calls)
	}
}

func TestDoWithRetryExhaustsAttempts(t *testing.T) {
	client, tr := newScriptedClient([]*http.Response{
		newMockResponse(500, `{"code":500,"status":"error"}`, nil),
		newMockResponse(500, `{"code":500,"status":"error"}`, nil),
	}, nil)

	_, _, err := DoWithRetry(context.Background(), client, listingRequest, fastRetryConfig(2))

	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected HTTPError after exhausted retries, got %v", err)
	}
	if herr.StatusCode != 500 {
		t.Errorf("Expected status 500, got %d", herr.StatusCode)
	}
	if tr.calls != 2 {
		t.Errorf("Expected exactly 2 attempts, got %d", tr.calls)
	}
}

func TestDoWithRetryNonRetryableNetworkError(t *testing.T) {
	client, tr := newScriptedClient(
		[]*http.Response{nil},
		[]error{errors.New("x509: certificate signed by unknown authority")},
	)

	_, _, err := DoWithRetry(context.Background(), client, listingRequest, fastRetryConfig(3))
	if err == nil || !strings.Contains(err.Error(), "certificate") {
		t.Errorf("Expected the transport error surfaced, got %v", err)
	}
	if tr.calls != 1 {
		t.Errorf("Expected no retry for a non-retryable error, got %d attempts", tr.calls)
	}
}

func TestDoWithRetryBuildReqError(t *testing.T) {
	client := newMockClient(nil, nil)

	buildReq := func(context.Context) (*http.Request, error) {
		return nil, errors.New("bad base url")
	}

	_, _, err := DoWithRetry(context.Background(), client, buildReq, fastRetryConfig(3))
	if err == nil || !strings.Contains(err.Error(), "bad base url") {
		t.Errorf("Expected build error surfaced, got %v", err)
	}
}

func TestDoWithRetryZeroConfigUsesDefaults(t *testing.T) {
	client := newMockClient([]*http.Response{newMockResponse(200, scalevListingBody, nil)}, nil)

	_, _, err := DoWithRetry(context.Background(), client, listingRequest, RetryConfig{})
	if err != nil {
		t.Errorf("Expected zero config to fall back to defaults, got %v", err)
	}
}

func TestDoJSON(t *testing.T) {
	client := newMockClient([]*http.Response{newMockResponse(200, scalevListingBody, nil)}, nil)

	var out struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	}
	if err := DoJSON(context.Background(), client, listingRequest, &out, fastRetryConfig(3)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Code != 200 || out.Status != "ok" {
		t.Errorf("Expected decoded envelope, got %+v", out)
	}

	// nil output skips decoding
	client = newMockClient([]*http.Response{newMockResponse(200, scalevListingBody, nil)}, nil)
	if err := DoJSON(context.Background(), client, listingRequest, nil, fastRetryConfig(3)); err != nil {
		t.Errorf("Expected no error with nil output, got %v", err)
	}

	// malformed body
	client = newMockClient([]*http.Response{newMockResponse(200, `{"code":200,`, nil)}, nil)
	err := DoJSON(context.Background(), client, listingRequest, &out, fastRetryConfig(3))
	if err == nil || !strings.Contains(err.Error(), "json parse error") {
		t.Errorf("Expected json parse error, got %v", err)
	}
}

func brotliCompress(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("brotli write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("brotli close: %v", err)
	}
	return buf.Bytes()
}

func TestReadAndClosePlainBody(t *testing.T) {
	resp := newMockResponse(200, scalevListingBody, nil)

	body, err := readAndClose(resp)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != scalevListingBody {
		t.Errorf("Expected body untouched, got %q", string(body))
	}
}

func TestReadAndCloseDecodesBrotli(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewReader(brotliCompress(t, scalevListingBody))),
		Header:     http.Header{"Content-Encoding": []string{"br"}},
	}

	body, err := readAndClose(resp)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != scalevListingBody {
		t.Errorf("Expected decoded body, got %q", string(body))
	}
}

func TestDoWithRetryDecodesBrotliResponse(t *testing.T) {
	// the CDN answers br-encoded when the request advertises it; the decoded
	// body must come back through the retry path too
	resp := &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewReader(brotliCompress(t, scalevListingBody))),
		Header:     http.Header{"Content-Encoding": []string{"br"}},
	}
	client := newMockClient([]*http.Response{resp}, nil)

	_, body, err := DoWithRetry(context.Background(), client, listingRequest, fastRetryConfig(3))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != scalevListingBody {
		t.Errorf("Expected decoded body, got %q", string(body))
	}
}

func TestSleepBackoff(t *testing.T) {
	start := time.Now()
	if err := sleepBackoff(context.Background(), 1, 5*time.Millisecond, 50*time.Millisecond, 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("Expected at least the base delay")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepBackoff(ctx, 1, time.Second, 2*time.Second, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
