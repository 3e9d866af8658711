package scalev

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"course-store/internal/httpx"
)

const DefaultBaseURL = "https://api.scalev.id/v2"

// Client is the single outbound connection to the Scalev commerce API.
// It owns authorization, the base address and the request timeout; every
// other component goes through it.
type Client struct {
	BaseURL string
	StoreID string

	// DetailWorkers bounds the product-detail fan-out. <=0 means default.
	DetailWorkers int

	apiKey string
	http   *http.Client
	logger *zap.Logger
}

func New(baseURL, apiKey, storeID string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("scalev: missing API key")
	}
	if storeID == "" {
		return nil, errors.New("scalev: missing store ID")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		BaseURL: baseURL,
		StoreID: storeID,
		apiKey:  apiKey,
		http: &http.Client{
			// hard ceiling per call so the endpoint ladder and the detail
			// fan-out cannot compound into unbounded latency
			Timeout: 30 * time.Second,
		},
		logger: logger.With(zap.String("component", "scalev")),
	}, nil
}

// readRetryConfig is used for idempotent reads. Conservative: the 30s client
// timeout still bounds each attempt.
func readRetryConfig() httpx.RetryConfig {
	return httpx.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Retry5xx:    true,
	}
}

// noRetryConfig is used for order creation: a retried POST could create a
// duplicate order upstream.
func noRetryConfig() httpx.RetryConfig {
	return httpx.RetryConfig{MaxAttempts: 1}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, retry httpx.RetryConfig) ([]byte, error) {
	c.logger.Info("scalev request", zap.String("method", method), zap.String("path", path))

	var bodyBytes []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("scalev: marshal payload: %w", err)
		}
		bodyBytes = b
	}

	buildReq := func(ctx context.Context) (*http.Request, error) {
		u := c.BaseURL + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		var rd io.Reader
		if bodyBytes != nil {
			rd = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rd)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Encoding", "br")
		return req, nil
	}

	_, body, err := httpx.DoWithRetry(ctx, c.http, buildReq, retry)
	if err != nil {
		var herr *httpx.HTTPError
		if errors.As(err, &herr) {
			c.logger.Error("scalev api error",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", herr.StatusCode),
				zap.ByteString("body", herr.Body),
			)
		}
		return nil, err
	}
	return body, nil
}

// Store fetches the configured store record, mainly to verify that the
// credentials resolve to something real.
func (c *Client) Store(ctx context.Context) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("search", c.StoreID)

	body, err := c.do(ctx, http.MethodGet, "/stores/simplified", q, nil, readRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("scalev: fetch store: %w", err)
	}
	return unwrapData(body)
}
