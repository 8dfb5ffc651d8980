package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campground/campground/internal/hierarchy"
)

// Config holds common client configuration.
type Config struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	CacheDir string
	Debug    bool
}

// DefaultConfig returns a default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080",
		Timeout: 30 * time.Second,
	}
}

// APIError is a non-2xx response from the Campground server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Progress is the state of one DAST scan as reported by the server.
type Progress struct {
	Progress int    `json:"progress"`
	Status   string `json:"status"`
	Phase    string `json:"phase,omitempty"`
	IsActive bool   `json:"isActive"`
}

// Terminal statuses a scan can end in.
const (
	StatusPending   = "PENDING"
	StatusQueued    = "QUEUED"
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

// Terminal reports whether the scan has stopped for good. A terminal status
// is authoritative; a false isActive flag counts too, covering servers that
// flip the flag before the final status lands.
func (p *Progress) Terminal() bool {
	switch p.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return !p.IsActive
}

// Client is a REST client for the Campground API. It deliberately carries no
// retry logic; callers that want to wait for the server use WaitReady before
// their first call.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, e.g. for a caching
// transport or a test double.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Campground API client.
func New(cfg Config, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		logger:  logger,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: NewLoggingTransport(NewCachingTransport(cfg.CacheDir), logger),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchHierarchy returns the full portfolio forest.
func (c *Client) FetchHierarchy(ctx context.Context) ([]*hierarchy.Organization, error) {
	var orgs []*hierarchy.Organization
	if err := c.do(ctx, http.MethodGet, "/api/v1/hierarchy", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// UpdateOrganization PUTs a sparse update and returns the updated entity.
func (c *Client) UpdateOrganization(ctx context.Context, id string, update hierarchy.OrganizationUpdate) (*hierarchy.Organization, error) {
	var org hierarchy.Organization
	path := "/api/v1/organizations/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, update, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// ScanProgress fetches the progress of one DAST scan.
func (c *Client) ScanProgress(ctx context.Context, projectID, scanID string) (*Progress, error) {
	var p Progress
	path := fmt.Sprintf("/api/v1/projects/%s/dast/scans/%s/progress",
		url.PathEscape(projectID), url.PathEscape(scanID))
	if err := c.do(ctx, http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls a message out of an {"error": "..."} body when present.
func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
