package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"ollama-chat/cmd/internal/logger"
	"ollama-chat/cmd/internal/trace"
)

const (
	maxBodySize    = 5 * 1024 * 1024
	maxErrBodySize = 2048
	maxBodyLog     = 1024
)

// ErrNotFound matches any *HTTPError carrying a 404 status.
var ErrNotFound = errors.New("resource not found")

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("httpclient: %s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Config holds the settings shared by every outbound client.
type Config struct {
	Timeout time.Duration
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// loggingRoundTripper logs every outbound call and propagates the
// X-Request-Id / X-Span-Id pair from the request context.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())
	if h := req.Header.Get(trace.HeaderRequestID); h != "" && trace.RequestIDFromContext(req.Context()) == "" {
		requestID = h
	}
	req = req.Clone(req.Context())
	req.Header.Set(trace.HeaderRequestID, requestID)
	req.Header.Set(trace.HeaderSpanID, spanID)

	var bodySnippet string
	if req.Body != nil && req.Body != http.NoBody {
		bodyBytes, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err == nil {
			if len(bodyBytes) > maxBodyLog {
				bodySnippet = string(bodyBytes[:maxBodyLog])
			} else {
				bodySnippet = string(bodyBytes)
			}
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	fields := logger.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if bodySnippet != "" {
		fields["body"] = bodySnippet
	}

	resp, err := l.inner.RoundTrip(req)
	fields["duration"] = time.Since(start).String()
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logger.DebugWithFields("httpclient request completed", fields)
	return resp, nil
}

// New builds an http.Client with the logging transport. A zero Timeout
// means 10 seconds.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: transport},
	}
}

// NewDefault returns New(Config{}).
func NewDefault() *http.Client {
	return New(Config{})
}

// BaseClient binds an http.Client to a base URL and the default JSON
// headers. It holds no mutable state and may be shared between goroutines.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
	Header     http.Header
}

// NewBaseClient uses NewDefault for the transport.
func NewBaseClient(baseURL string) *BaseClient {
	return NewBaseClientWithClient(nil, baseURL)
}

// NewBaseClientWithClient uses httpClient, or NewDefault when it is nil.
func NewBaseClientWithClient(httpClient *http.Client, baseURL string) *BaseClient {
	if httpClient == nil {
		httpClient = NewDefault()
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	return &BaseClient{
		HTTPClient: httpClient,
		BaseURL:    strings.TrimSpace(baseURL),
		Header:     h,
	}
}

// URL joins relPath onto the base URL. Query parameters must go through
// query: a relPath containing '?' is rejected since path.Join would mangle it.
func (c *BaseClient) URL(relPath string, query url.Values) (string, error) {
	if strings.Contains(relPath, "?") {
		return "", fmt.Errorf("httpclient: relPath must not contain a query string (use the query argument): %s", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("httpclient: parse base url %q: %w", c.BaseURL, err)
	}
	if relPath != "" {
		base.Path = path.Join("/", base.Path, relPath)
		base.RawPath = ""
	}
	if len(query) > 0 {
		base.RawQuery = query.Encode()
	}
	return base.String(), nil
}

// NewRequest builds a request against relPath with the default headers set.
func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	u, err := c.URL(relPath, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}

// DoJSON sends in (when non-nil) as a JSON body, and decodes a 2xx response
// into out (when non-nil). An empty 2xx body leaves out untouched.
func (c *BaseClient) DoJSON(ctx context.Context, method, relPath string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.NewRequest(ctx, method, relPath, query, body)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     method,
			URL:        req.URL.String(),
			Body:       string(b),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("httpclient: read response body: %w", err)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}
