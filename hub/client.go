package hub

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/filter"
)

const (
	// DefaultBaseURL is the public hub API.
	DefaultBaseURL = "https://huggingface.co/api"

	// DefaultLimit is how many models a keyword search asks for.
	DefaultLimit = 50

	maxResponseBytes = 32 << 20
)

// Client talks to the hub's model index.
type Client struct {
	baseURL    string
	token      string
	limit      int
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at another hub deployment.
func WithBaseURL(base string) Option {
	return func(c *Client) error {
		u, err := url.Parse(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrInvalidBaseURL
		}
		c.baseURL = strings.TrimSuffix(base, "/")
		return nil
	}
}

// WithToken sends a bearer credential. Anonymous access works for public models.
func WithToken(token string) Option {
	return func(c *Client) error {
		c.token = strings.TrimSpace(token)
		return nil
	}
}

// WithLimit caps the number of keyword results.
// Default is DefaultLimit.
func WithLimit(limit int) Option {
	return func(c *Client) error {
		if limit < 1 {
			return ErrInvalidLimit
		}
		c.limit = limit
		return nil
	}
}

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client != nil {
			c.httpClient = client
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "hub-client")
		return nil
	}
}

// NewClient creates a hub client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		limit:      DefaultLimit,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default().With("component", "hub-client"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Search runs a lexical query against the index, most downloaded first.
// A task filter narrows the request to that task's primary pipeline tag;
// every other filter is left to the caller.
func (c *Client) Search(ctx context.Context, query string, filters core.SearchFilters) ([]core.ModelResult, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("sort", "downloads")
	params.Set("direction", "-1")
	if tags := filter.PipelineTags(filters.Task); len(tags) > 0 {
		params.Set("pipeline_tag", tags[0])
	}

	var models []hubModel
	if err := c.get(ctx, "hub search", c.baseURL+"/models?"+params.Encode(), &models); err != nil {
		return nil, err
	}

	results := make([]core.ModelResult, 0, len(models))
	for _, m := range models {
		if m.ID == "" && m.ModelID == "" {
			continue
		}
		results = append(results, m.toResult())
	}
	c.logger.Debug("keyword search", "query", query, "results", len(results))
	return results, nil
}

// ModelInfo fetches one model's metadata.
func (c *Client) ModelInfo(ctx context.Context, id string) (core.ModelResult, error) {
	if strings.TrimSpace(id) == "" {
		return core.ModelResult{}, core.ErrEmptyModelID
	}

	var m hubModel
	if err := c.get(ctx, "hub model info", c.baseURL+"/models/"+escapeID(id), &m); err != nil {
		return core.ModelResult{}, err
	}
	if m.ID == "" && m.ModelID == "" {
		m.ID = id
	}
	return m.toResult(), nil
}

func (c *Client) get(ctx context.Context, op, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &core.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &core.TransportError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return &core.TransportError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}
	return nil
}

// escapeID escapes each path segment of "org/name" but keeps the slash.
func escapeID(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
