package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/poiesic/modelscout/core"
)

const (
	// DefaultCatalogPath is where the catalog artifact is served.
	DefaultCatalogPath = "/models_catalog.json"

	// DefaultEmbeddingsPath is where the embeddings artifact is served.
	DefaultEmbeddingsPath = "/catalog_embeddings.json"

	maxArtifactBytes = 512 << 20
)

// HTTPSource fetches the artifacts from the origin that hosts them.
type HTTPSource struct {
	catalogURL    string
	embeddingsURL string
	client        *http.Client
}

// HTTPSourceOption configures an HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(client *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// NewHTTPSource resolves the artifact paths against origin. Paths may be
// relative ("/models_catalog.json") or absolute URLs.
func NewHTTPSource(origin, catalogPath, embeddingsPath string, opts ...HTTPSourceOption) (*HTTPSource, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parsing origin %q: %w", origin, err)
	}
	if catalogPath == "" {
		catalogPath = DefaultCatalogPath
	}
	if embeddingsPath == "" {
		embeddingsPath = DefaultEmbeddingsPath
	}

	resolve := func(p string) (string, error) {
		ref, err := url.Parse(p)
		if err != nil {
			return "", fmt.Errorf("parsing artifact path %q: %w", p, err)
		}
		return base.ResolveReference(ref).String(), nil
	}

	s := &HTTPSource{client: &http.Client{Timeout: 30 * time.Second}}
	if s.catalogURL, err = resolve(catalogPath); err != nil {
		return nil, err
	}
	if s.embeddingsURL, err = resolve(embeddingsPath); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *HTTPSource) FetchCatalog(ctx context.Context) ([]core.CatalogModel, error) {
	var models []core.CatalogModel
	if err := s.get(ctx, "catalog", s.catalogURL, &models); err != nil {
		return nil, err
	}
	return models, nil
}

func (s *HTTPSource) FetchEmbeddings(ctx context.Context) ([]core.EmbeddingRecord, error) {
	var records []core.EmbeddingRecord
	if err := s.get(ctx, "embeddings", s.embeddingsURL, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *HTTPSource) get(ctx context.Context, artifact, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &core.DataLoadError{Artifact: artifact, Err: &core.TransportError{Op: "fetch " + artifact, Err: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &core.DataLoadError{Artifact: artifact, Err: &core.TransportError{
			Op:         "fetch " + artifact,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}}
	}
	return decode(artifact, io.LimitReader(resp.Body, maxArtifactBytes), out)
}

// FileSource reads the artifacts from local files.
type FileSource struct {
	CatalogPath    string
	EmbeddingsPath string
}

func (s FileSource) FetchCatalog(_ context.Context) ([]core.CatalogModel, error) {
	var models []core.CatalogModel
	if err := readFile("catalog", s.CatalogPath, &models); err != nil {
		return nil, err
	}
	return models, nil
}

func (s FileSource) FetchEmbeddings(_ context.Context) ([]core.EmbeddingRecord, error) {
	var records []core.EmbeddingRecord
	if err := readFile("embeddings", s.EmbeddingsPath, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func readFile(artifact, path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return &core.DataLoadError{Artifact: artifact, Err: err}
	}
	defer f.Close()
	return decode(artifact, f, out)
}

func decode(artifact string, r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return &core.DataLoadError{Artifact: artifact, Err: fmt.Errorf("malformed JSON: %w", err)}
	}
	return nil
}
