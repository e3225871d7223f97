// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package modelscout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/modelscout/ai"
	"github.com/poiesic/modelscout/ai/hfinference"
	"github.com/poiesic/modelscout/ai/openai"
	"github.com/poiesic/modelscout/catalog"
	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/hub"
	"github.com/poiesic/modelscout/rank"
	"github.com/poiesic/modelscout/resilient"
	"github.com/poiesic/modelscout/search"
	"github.com/poiesic/modelscout/semantic"
	"github.com/poiesic/modelscout/server"
	"github.com/poiesic/modelscout/storage"
	"github.com/poiesic/modelscout/storage/badger"
)

// ErrRemoteSemantic is returned by Server when semantic queries go to a
// remote backend, leaving nothing local to serve.
var ErrRemoteSemantic = errors.New("semantic search is served remotely")

// Scout answers model searches in semantic or keyword mode.
type Scout struct {
	store     *catalog.Store
	mirror    storage.CatalogRepository
	embedder  ai.Embedder
	resilient *resilient.Client
	enricher  *hub.Enricher
	local     *semantic.LocalRetriever
	searcher  *search.Searcher
	logger    *slog.Logger
}

// Option configures a Scout.
type Option func(*options)

type options struct {
	aiConfig      *ai.Config
	embedder      ai.Embedder
	source        catalog.Source
	origin        string
	mirrorPath    string
	backendURL    string
	hubOptions    []hub.Option
	minSimilarity *float32
	enrich        bool
	memoSize      int
	memoTTL       time.Duration
	httpClient    *http.Client
	logger        *slog.Logger
}

// WithAIConfig sets the query embedder configuration.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithEmbedder supplies a ready-made embedder instead of building one from
// the AI config.
func WithEmbedder(e ai.Embedder) Option {
	return func(o *options) {
		o.embedder = e
	}
}

// WithCatalogSource sets where the catalog and embedding artifacts come from.
func WithCatalogSource(src catalog.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithArtifactOrigin fetches the artifacts over HTTP from origin using the
// default artifact paths.
func WithArtifactOrigin(origin string) Option {
	return func(o *options) {
		o.origin = origin
	}
}

// WithMirror loads the artifacts from a local mirror database at path.
func WithMirror(path string) Option {
	return func(o *options) {
		o.mirrorPath = path
	}
}

// WithSemanticBackend routes semantic queries to a remote vector-search
// backend instead of ranking locally.
func WithSemanticBackend(url string) Option {
	return func(o *options) {
		o.backendURL = url
	}
}

// WithHubOptions configures the keyword index client.
func WithHubOptions(opts ...hub.Option) Option {
	return func(o *options) {
		o.hubOptions = append(o.hubOptions, opts...)
	}
}

// WithMinSimilarity drops locally ranked models scoring below min.
func WithMinSimilarity(min float32) Option {
	return func(o *options) {
		o.minSimilarity = &min
	}
}

// WithEnrichment toggles hub lookups for semantic results missing
// downloads, likes or license. Enabled by default.
func WithEnrichment(enabled bool) Option {
	return func(o *options) {
		o.enrich = enabled
	}
}

// WithEnrichmentMemo bounds the enrichment memo.
func WithEnrichmentMemo(size int, ttl time.Duration) Option {
	return func(o *options) {
		o.memoSize = size
		o.memoTTL = ttl
	}
}

// WithHTTPClient sets the client used for artifacts, the hub and the
// semantic backend.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New wires the catalog store, embedder, ranker, hub client, enricher and
// searcher. A missing embedding credential does not fail New: keyword
// search keeps working and semantic calls return core.ErrConfiguration.
func New(opts ...Option) (*Scout, error) {
	o := &options{
		aiConfig: ai.DefaultConfig(),
		enrich:   true,
		memoSize: hub.DefaultMemoSize,
		memoTTL:  hub.DefaultMemoTTL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger.With("component", "modelscout")

	s := &Scout{logger: logger}
	if err := s.init(o); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Scout) init(o *options) error {
	source, err := s.openSource(o)
	if err != nil {
		return err
	}
	s.store, err = catalog.NewStore(source, catalog.WithLogger(o.logger))
	if err != nil {
		return err
	}

	hubOpts := append([]hub.Option{hub.WithLogger(o.logger)}, o.hubOptions...)
	if o.httpClient != nil {
		hubOpts = append(hubOpts, hub.WithHTTPClient(o.httpClient))
	}
	hubClient, err := hub.NewClient(hubOpts...)
	if err != nil {
		return err
	}

	semanticRetriever, err := s.semanticRetriever(o)
	if err != nil {
		return err
	}

	searchOpts := []search.Option{search.WithLogger(o.logger)}
	if o.enrich {
		s.enricher, err = hub.NewEnricher(hubClient,
			hub.WithMemo(o.memoSize, o.memoTTL),
			hub.WithEnricherLogger(o.logger),
		)
		if err != nil {
			return err
		}
		searchOpts = append(searchOpts, search.WithEnricher(s.enricher))
	}

	s.searcher, err = search.NewSearcher(semanticRetriever, search.KeywordRetriever{Index: hubClient}, searchOpts...)
	return err
}

func (s *Scout) openSource(o *options) (catalog.Source, error) {
	switch {
	case o.source != nil:
		return o.source, nil
	case o.mirrorPath != "":
		repo, err := badger.OpenRepository(o.mirrorPath)
		if err != nil {
			return nil, fmt.Errorf("opening mirror: %w", err)
		}
		s.mirror = repo
		return repo, nil
	case o.origin != "":
		var srcOpts []catalog.HTTPSourceOption
		if o.httpClient != nil {
			srcOpts = append(srcOpts, catalog.WithHTTPClient(o.httpClient))
		}
		return catalog.NewHTTPSource(o.origin, catalog.DefaultCatalogPath, catalog.DefaultEmbeddingsPath, srcOpts...)
	default:
		return nil, fmt.Errorf("%w: no catalog source, origin or mirror configured", core.ErrConfiguration)
	}
}

func (s *Scout) semanticRetriever(o *options) (search.Retriever, error) {
	if o.backendURL != "" {
		client, err := resilient.NewClient(
			resilient.WithProber(resilient.NewHTTPProber(o.backendURL, o.httpClient)),
			resilient.WithLogger(o.logger),
		)
		if err != nil {
			return nil, err
		}
		s.resilient = client

		remoteOpts := []semantic.RemoteOption{semantic.WithRemoteLogger(o.logger)}
		if o.httpClient != nil {
			remoteOpts = append(remoteOpts, semantic.WithHTTPClient(o.httpClient))
		}
		return semantic.NewRemoteRetriever(o.backendURL, client, remoteOpts...)
	}

	embedder, err := s.newEmbedder(o)
	if err != nil {
		return nil, err
	}
	s.embedder = embedder

	// Waking a sleeping inference endpoint takes any request; a one-word
	// embedding is the cheapest.
	client, err := resilient.NewClient(
		resilient.WithProber(resilient.ProberFunc(func(ctx context.Context) error {
			_, err := embedder.EmbedText(ctx, "ping")
			return err
		})),
		resilient.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}
	s.resilient = client

	rankOpts := []rank.Option{rank.WithLogger(o.logger)}
	if o.minSimilarity != nil {
		rankOpts = append(rankOpts, rank.WithMinSimilarity(*o.minSimilarity))
	}
	ranker, err := rank.NewRanker(rankOpts...)
	if err != nil {
		return nil, err
	}

	s.local, err = semantic.NewLocalRetriever(s.store, embedder, client, ranker, semantic.WithLocalLogger(o.logger))
	if err != nil {
		return nil, err
	}
	return s.local, nil
}

func (s *Scout) newEmbedder(o *options) (ai.Embedder, error) {
	if o.embedder != nil {
		return o.embedder, nil
	}
	embedder, err := NewEmbedder(o.aiConfig, o.httpClient, o.logger)
	if errors.Is(err, core.ErrConfiguration) {
		s.logger.Warn("semantic search unavailable", "err", err)
		return unconfiguredEmbedder{err: err}, nil
	}
	return embedder, err
}

// NewEmbedder builds the query embedder cfg selects. A nil client or
// logger means the package default.
func NewEmbedder(cfg *ai.Config, client *http.Client, logger *slog.Logger) (ai.Embedder, error) {
	switch cfg.Backend {
	case ai.BackendOpenAI:
		return openai.NewEmbedder(cfg)
	default:
		hfOpts := []hfinference.Option{hfinference.WithLogger(logger), hfinference.WithHTTPClient(client)}
		return hfinference.NewEmbedder(cfg, hfOpts...)
	}
}

// Search runs one query. See search.Searcher.Search.
func (s *Scout) Search(ctx context.Context, mode core.Mode, query string, filters core.SearchFilters, topK int) ([]core.ModelResult, error) {
	return s.searcher.Search(ctx, mode, query, filters, topK)
}

// SearchWithMonitor runs one query and reports its stages to monitor.
func (s *Scout) SearchWithMonitor(ctx context.Context, mode core.Mode, query string, filters core.SearchFilters, topK int, monitor search.Monitor) ([]core.ModelResult, error) {
	return s.searcher.SearchWithMonitor(ctx, mode, query, filters, topK, monitor)
}

// Catalog returns the loaded catalog snapshot, loading it on first use.
func (s *Scout) Catalog(ctx context.Context) (*core.Snapshot, error) {
	return s.store.Load(ctx)
}

// Server exposes local semantic ranking over HTTP. It fails when semantic
// queries are routed to a remote backend.
func (s *Scout) Server(opts ...server.Option) (*server.Server, error) {
	if s.local == nil {
		return nil, ErrRemoteSemantic
	}
	return server.New(s.local, s.store, opts...)
}

// Embedder returns the query embedder, or nil when semantic queries go to
// a remote backend.
func (s *Scout) Embedder() ai.Embedder {
	return s.embedder
}

// Close releases the enrichment pool, waits for warm-up probes and closes
// the mirror.
func (s *Scout) Close() error {
	if s.enricher != nil {
		s.enricher.Release()
	}
	if s.resilient != nil {
		s.resilient.Wait()
	}
	if s.mirror != nil {
		if err := s.mirror.Close(); err != nil {
			s.logger.Error("error closing mirror", "err", err)
			return err
		}
	}
	return nil
}

// unconfiguredEmbedder fails every call with the construction error.
type unconfiguredEmbedder struct {
	err error
}

func (u unconfiguredEmbedder) EmbedText(context.Context, string) ([]float32, error) {
	return nil, u.err
}

func (u unconfiguredEmbedder) EmbedTexts(context.Context, []string) ([][]float32, error) {
	return nil, u.err
}
