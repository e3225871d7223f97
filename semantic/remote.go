package semantic

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

	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/filter"
	"github.com/poiesic/modelscout/rank"
	"github.com/poiesic/modelscout/resilient"
)

const maxResponseBytes = 16 << 20

// Request is the body of a /semantic_search call. The param count bounds
// narrow candidates server-side and are omitted when no size is set.
type Request struct {
	Query         string   `json:"query"`
	TopK          int      `json:"top_k"`
	MinParamCount *float64 `json:"min_param_count,omitempty"`
	MaxParamCount *float64 `json:"max_param_count,omitempty"`
}

// RemoteRetriever delegates ranking to a vector-search backend.
type RemoteRetriever struct {
	url        string
	client     *resilient.Client
	httpClient *http.Client
	logger     *slog.Logger
}

// RemoteOption configures a RemoteRetriever.
type RemoteOption func(*RemoteRetriever) error

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *RemoteRetriever) error {
		if client != nil {
			r.httpClient = client
		}
		return nil
	}
}

// WithRemoteLogger sets a custom logger.
// Default is slog.Default().
func WithRemoteLogger(logger *slog.Logger) RemoteOption {
	return func(r *RemoteRetriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "remote-retriever")
		return nil
	}
}

// NewRemoteRetriever calls POST <baseURL>/semantic_search through client.
func NewRemoteRetriever(baseURL string, client *resilient.Client, opts ...RemoteOption) (*RemoteRetriever, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: semantic backend URL is required", core.ErrConfiguration)
	}
	if client == nil {
		return nil, ErrClientRequired
	}

	r := &RemoteRetriever{
		url:        baseURL + "/semantic_search",
		client:     client,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		logger:     slog.Default().With("component", "remote-retriever"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Retrieve runs the query on the backend. Only the size filter is sent
// along; the rest are applied by the caller. topK <= 0 means
// rank.DefaultTopK, as on the local path.
func (r *RemoteRetriever) Retrieve(ctx context.Context, query string, filters core.SearchFilters, topK int) ([]core.ModelResult, error) {
	if topK <= 0 {
		topK = rank.DefaultTopK
	}
	bounds := filter.SizeBounds(filters.Size)
	req := Request{Query: query, TopK: topK, MinParamCount: bounds.Min, MaxParamCount: bounds.Max}

	rows, err := resilient.Call(ctx, r.client, func(ctx context.Context) ([]Row, error) {
		return r.call(ctx, req)
	})
	if err != nil {
		r.logger.Error("semantic backend call failed", "err", err)
		return nil, err
	}

	results := make([]core.ModelResult, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.ModelID) == "" {
			continue
		}
		results = append(results, row.ToResult())
	}
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (r *RemoteRetriever) call(ctx context.Context, body Request) ([]Row, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &core.TransportError{Op: "semantic search", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &core.TransportError{Op: "semantic search", StatusCode: resp.StatusCode, Status: resp.Status, Body: string(text)}
	}

	var rows []Row
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&rows); err != nil {
		return nil, &core.TransportError{Op: "semantic search", StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return rows, nil
}
