package nif

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ClientConfig configures a Client. Zero values fall back to defaults.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration // per HTTP call, default 120s
	RPS        float64       // request rate limit, <= 0 disables
	MaxRetries int           // default MaxRetries; negative disables retries
	Backoff    func(attempt int) time.Duration
	HTTPClient *http.Client
	Stats      *LatencyStats
	Logger     *slog.Logger
}

// Client calls the NIF analysis backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    func(int) time.Duration
	stats      *LatencyStats
	log        *slog.Logger
}

// NewClient returns a backend client for cfg.BaseURL.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}

	maxRetries := cfg.MaxRetries
	switch {
	case maxRetries == 0:
		maxRetries = MaxRetries
	case maxRetries < 0:
		maxRetries = 0
	}

	backoff := cfg.Backoff
	if backoff == nil {
		backoff = Backoff
	}
	stats := cfg.Stats
	if stats == nil {
		stats = NewLatencyStats(time.Hour)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		maxRetries: maxRetries,
		backoff:    backoff,
		stats:      stats,
		log:        log,
	}
}

// Stats returns the latency window the client records into.
func (c *Client) Stats() *LatencyStats {
	return c.stats
}

// Process submits document text for NIF conversion. A response with
// success=false is returned together with a *BackendError.
func (c *Client) Process(ctx context.Context, req ProcessRequest) (*ProcessResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid process request: %w", err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal process request: %w", err)
	}

	var resp *ProcessResponse
	err = c.do(ctx, "process", http.MethodPost, "/process", body, func(data []byte) error {
		var err error
		resp, err = DecodeProcessResponse(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		if msg == "" {
			msg = "processing failed"
		}
		return resp, &BackendError{StatusCode: http.StatusOK, Message: msg}
	}
	return resp, nil
}

// SparqlInfo fetches the backend's SPARQL endpoint.
func (c *Client) SparqlInfo(ctx context.Context) (*SparqlInfo, error) {
	var info SparqlInfo
	err := c.do(ctx, "sparql info", http.MethodGet, "/sparql", nil, func(data []byte) error {
		if err := json.Unmarshal(data, &info); err != nil {
			return fmt.Errorf("decode sparql info: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Health checks that the backend is up.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	err := c.do(ctx, "health", http.MethodGet, "/health", nil, func(data []byte) error {
		if err := json.Unmarshal(data, &status); err != nil {
			return fmt.Errorf("decode health: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// do runs one backend call, retrying transient failures with backoff.
// decode is only called for a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, decode func([]byte) error) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt - 1)
			c.log.Warn("retrying backend call",
				"op", op,
				"attempt", attempt,
				"wait_ms", wait.Milliseconds(),
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		lastErr = c.once(ctx, method, path, body, decode)
		if lastErr == nil || !IsRetryable(lastErr) {
			if lastErr != nil {
				return fmt.Errorf("%s: %w", op, lastErr)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: giving up after %d attempts: %w", op, c.maxRetries+1, lastErr)
}

func (c *Client) once(ctx context.Context, method, path string, body []byte, decode func([]byte) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.stats.Record(time.Since(start).Milliseconds(), true)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &RetryableError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	c.stats.Record(time.Since(start).Milliseconds(), err != nil || resp.StatusCode >= 500)
	if err != nil {
		return &RetryableError{StatusCode: resp.StatusCode, Message: "read response: " + err.Error()}
	}

	c.log.Debug("backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if retryableStatus(resp.StatusCode) {
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &BackendError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}
	return decode(respBody)
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
