package natsbench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient queries a hosted benchmark endpoint. Endpoints:
//
//	GET /api/v1/size                      -> {"size": N}
//	GET /api/v1/archs/{index}             -> {"arch_str": "..."}
//	GET /api/v1/archs/{index}/info?dataset=&hp= -> Info
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// APIError is a non-2xx response from the benchmark endpoint.
type APIError struct {
	StatusCode int
	Operation  string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("natsbench: %s: HTTP %d: %s", e.Operation, e.StatusCode, e.Message)
}

// Is maps 404 responses onto ErrNotFound so callers can use errors.Is
// without caring which client implementation they hold.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// HTTPOption configures an HTTPClient during construction.
type HTTPOption func(*HTTPClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.httpClient = c }
}

// WithTimeout sets a timeout on the underlying http.Client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPClient) { h.httpClient.Timeout = d }
}

// WithLogger configures structured logging of requests.
func WithLogger(l *slog.Logger) HTTPOption {
	return func(h *HTTPClient) { h.logger = l }
}

// NewHTTPClient returns a client for the benchmark endpoint at baseURL.
func NewHTTPClient(baseURL string, opts ...HTTPOption) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("natsbench: baseURL is required")
	}
	h := &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// getJSON executes a GET and decodes the JSON response into dst.
func (h *HTTPClient) getJSON(ctx context.Context, path, operation string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("natsbench: %s: create request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("natsbench: %s: %w", operation, err)
	}
	defer resp.Body.Close()
	h.logger.Debug("benchmark request", "op", operation, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{
			StatusCode: resp.StatusCode,
			Operation:  operation,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("natsbench: %s: decode response: %w", operation, err)
	}
	return nil
}

// Size implements Client.
func (h *HTTPClient) Size(ctx context.Context) (int, error) {
	var out struct {
		Size int `json:"size"`
	}
	if err := h.getJSON(ctx, "/api/v1/size", "size", &out); err != nil {
		return 0, err
	}
	return out.Size, nil
}

// Arch implements Client.
func (h *HTTPClient) Arch(ctx context.Context, index int) (string, error) {
	var out struct {
		ArchStr string `json:"arch_str"`
	}
	path := fmt.Sprintf("/api/v1/archs/%d", index)
	if err := h.getJSON(ctx, path, fmt.Sprintf("arch %d", index), &out); err != nil {
		return "", err
	}
	return out.ArchStr, nil
}

// MoreInfo implements Client.
func (h *HTTPClient) MoreInfo(ctx context.Context, index int, dataset string, hp int) (*Info, error) {
	q := url.Values{}
	q.Set("dataset", dataset)
	q.Set("hp", fmt.Sprintf("%d", hp))
	path := fmt.Sprintf("/api/v1/archs/%d/info?%s", index, q.Encode())
	var info Info
	op := fmt.Sprintf("info arch %d dataset %s hp %d", index, dataset, hp)
	if err := h.getJSON(ctx, path, op, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
