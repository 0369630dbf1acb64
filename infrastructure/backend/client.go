// Package backend implements the HTTP client for the remote records and
// search service. Responses are returned as decoded but otherwise untouched
// JSON; interpreting their shape is the normalization layer's job.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitae-backend/infrastructure/config"
	pkgerrors "vitae-backend/pkg/errors"
	"vitae-backend/pkg/observability"
)

// Client talks to the remote backend with retries and exponential backoff.
// It implements ports.RemoteGateway.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	maxRetries  int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	logger      *zap.Logger
	tracer      *observability.Tracer
}

// NewClient creates a remote backend client from configuration
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.RemoteBaseURL, "/"),
		apiKey:      cfg.RemoteAPIKey,
		httpClient:  &http.Client{Timeout: cfg.RemoteTimeout},
		maxRetries:  cfg.RemoteMaxRetries,
		baseBackoff: cfg.RemoteRetryBackoff,
		maxBackoff:  15 * time.Second,
		logger:      logger,
	}
}

// WithTracer enables X-Ray subsegments around remote calls
func (c *Client) WithTracer(tracer *observability.Tracer) *Client {
	c.tracer = tracer
	return c
}

// SearchCourses runs a free-text course search against the AI search endpoint
func (c *Client) SearchCourses(ctx context.Context, query string) (interface{}, error) {
	endpoint := c.baseURL + "/search?" + url.Values{"q": {query}}.Encode()
	return c.doJSON(ctx, http.MethodGet, endpoint, nil)
}

// CreateNote creates a note under a record
func (c *Client) CreateNote(ctx context.Context, ownerRecordID string, body map[string]interface{}) (interface{}, error) {
	endpoint := fmt.Sprintf("%s/records/%s/notes", c.baseURL, url.PathEscape(ownerRecordID))
	return c.doJSON(ctx, http.MethodPost, endpoint, body)
}

// UpdateNote updates a note under a record
func (c *Client) UpdateNote(ctx context.Context, ownerRecordID, noteID string, body map[string]interface{}) (interface{}, error) {
	endpoint := fmt.Sprintf("%s/records/%s/notes/%s", c.baseURL, url.PathEscape(ownerRecordID), url.PathEscape(noteID))
	return c.doJSON(ctx, http.MethodPut, endpoint, body)
}

// DeleteNote deletes a note under a record
func (c *Client) DeleteNote(ctx context.Context, ownerRecordID, noteID string) (interface{}, error) {
	endpoint := fmt.Sprintf("%s/records/%s/notes/%s", c.baseURL, url.PathEscape(ownerRecordID), url.PathEscape(noteID))
	return c.doJSON(ctx, http.MethodDelete, endpoint, nil)
}

// CreateCourse persists a course built from a search candidate
func (c *Client) CreateCourse(ctx context.Context, body map[string]interface{}) (interface{}, error) {
	return c.doJSON(ctx, http.MethodPost, c.baseURL+"/courses", body)
}

// doJSON executes the request with retries and decodes the response body.
// A 2xx with an empty body decodes to nil, which downstream normalization
// treats as an absent payload.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body map[string]interface{}) (interface{}, error) {
	var respBody []byte
	call := func(ctx context.Context) error {
		var err error
		respBody, err = c.doWithRetry(ctx, method, endpoint, body)
		return err
	}

	var err error
	if c.tracer != nil {
		err = c.tracer.Capture(ctx, "backend."+strings.ToLower(method), call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}

	var payload interface{}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		c.logger.Warn("remote backend returned non-JSON body",
			zap.String("method", method),
			zap.String("url", endpoint),
			zap.Error(err),
		)
		// Not a transport failure. Hand the raw text to the normalizer,
		// which will classify it as unrecognized.
		return string(respBody), nil
	}
	return payload, nil
}

func (c *Client) doWithRetry(ctx context.Context, method, endpoint string, body map[string]interface{}) ([]byte, error) {
	attempts := c.maxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		req, err := c.buildRequest(ctx, method, endpoint, body)
		if err != nil {
			return nil, pkgerrors.NewInternalError("failed to build backend request: " + err.Error())
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if !isRetryableNetErr(err) || attempt == attempts {
				return nil, pkgerrors.NewNetworkError("remote backend unreachable", err)
			}
			lastErr = err
			if err := c.sleepBackoff(ctx, attempt, 0); err != nil {
				return nil, pkgerrors.NewNetworkError("remote backend request cancelled", err)
			}
			continue
		}

		respBody, readErr := readAndClose(resp.Body)
		if readErr != nil {
			if !isRetryableNetErr(readErr) || attempt == attempts {
				return nil, pkgerrors.NewNetworkError("failed reading backend response", readErr)
			}
			lastErr = readErr
			if err := c.sleepBackoff(ctx, attempt, 0); err != nil {
				return nil, pkgerrors.NewNetworkError("remote backend request cancelled", err)
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return respBody, nil
		}

		if isRetryableStatus(resp.StatusCode) && attempt < attempts {
			lastErr = fmt.Errorf("backend status %d", resp.StatusCode)
			c.logger.Warn("retrying backend request",
				zap.String("method", method),
				zap.String("url", endpoint),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt),
			)
			if err := c.sleepBackoff(ctx, attempt, parseRetryAfter(resp)); err != nil {
				return nil, pkgerrors.NewNetworkError("remote backend request cancelled", err)
			}
			continue
		}

		return nil, c.statusError(method, endpoint, resp.StatusCode, respBody)
	}

	return nil, pkgerrors.NewNetworkError("remote backend request exhausted retries", lastErr)
}

func (c *Client) buildRequest(ctx context.Context, method, endpoint string, body map[string]interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func (c *Client) statusError(method, endpoint string, status int, body []byte) error {
	msg := fmt.Sprintf("backend %s %s returned status %d", method, endpoint, status)
	c.logger.Warn("backend request failed",
		zap.Int("status", status),
		zap.String("body", snippet(body, 400)),
	)

	switch {
	case status == http.StatusNotFound:
		return pkgerrors.NewNotFoundError("remote resource")
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return pkgerrors.NewUnauthorizedError("backend rejected credentials")
	case status >= 500 || status == http.StatusTooManyRequests:
		return pkgerrors.NewNetworkError(msg, nil)
	default:
		return pkgerrors.NewValidationError(msg)
	}
}

func (c *Client) sleepBackoff(ctx context.Context, attempt int, retryAfter time.Duration) error {
	sleep := retryAfter
	if sleep <= 0 {
		sleep = c.baseBackoff * time.Duration(1<<(attempt-1))
		if sleep > c.maxBackoff {
			sleep = c.maxBackoff
		}
		sleep += time.Duration(rand.Intn(250)) * time.Millisecond
	}

	t := time.NewTimer(sleep)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusRequestTimeout,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return code >= 500 && code <= 599
}

func isRetryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}

// parseRetryAfter reads the Retry-After header as seconds or an HTTP date.
// Returns 0 when the header is missing or invalid.
func parseRetryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
