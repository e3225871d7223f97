package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/filter"
)

// Retriever produces candidate results for a query. Implementations do not
// filter; the Searcher applies filters uniformly afterwards.
type Retriever interface {
	Retrieve(ctx context.Context, query string, filters core.SearchFilters, topK int) ([]core.ModelResult, error)
}

// Enricher backfills missing result metadata. It must not fail the query.
type Enricher interface {
	Enrich(ctx context.Context, results []core.ModelResult) []core.ModelResult
}

// Searcher is the single entry point for model search. It picks the
// retrieval path for a mode, then enriches and filters the results.
type Searcher struct {
	semantic Retriever
	keyword  Retriever
	enricher Enricher
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithEnricher backfills downloads, likes and license on semantic results
// before filtering. Without one, semantic results keep whatever the
// retrieval path reported.
func WithEnricher(e Enricher) Option {
	return func(s *Searcher) error {
		s.enricher = e
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(semantic, keyword Retriever, opts ...Option) (*Searcher, error) {
	if semantic == nil {
		return nil, ErrSemanticRetrieverRequired
	}
	if keyword == nil {
		return nil, ErrKeywordRetrieverRequired
	}

	s := &Searcher{
		semantic: semantic,
		keyword:  keyword,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search finds models matching query. An empty or whitespace-only query
// returns an empty result without any network activity. topK <= 0 uses the
// retrieval path's default.
func (s *Searcher) Search(ctx context.Context, mode core.Mode, query string, filters core.SearchFilters, topK int) ([]core.ModelResult, error) {
	return s.SearchWithMonitor(ctx, mode, query, filters, topK, nil)
}

// SearchWithMonitor is Search with callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, mode core.Mode, query string, filters core.SearchFilters, topK int, monitor Monitor) ([]core.ModelResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query = normalizeQuery(query)
	if query == "" {
		return []core.ModelResult{}, nil
	}

	var retriever Retriever
	switch mode {
	case core.ModeSemantic:
		retriever = s.semantic
	case core.ModeKeyword:
		retriever = s.keyword
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidMode, mode)
	}
	if err := core.ValidateFilters(filters); err != nil {
		return nil, err
	}

	monitor.Start(mode, query)

	// 1. Retrieve candidates
	results, err := retriever.Retrieve(ctx, query, filters, topK)
	if err != nil {
		s.logger.Error("retrieval failed", "mode", mode, "query", query, "err", err)
		return nil, err
	}
	monitor.AfterRetrieval(results)

	// 2. Backfill stats the semantic backend omits
	if mode == core.ModeSemantic && s.enricher != nil {
		results = s.enricher.Enrich(ctx, results)
		monitor.AfterEnrichment(results)
	}

	// 3. Filter
	results = filter.Apply(results, filters)
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	monitor.Finish(results)

	s.logger.Debug("search complete", "mode", mode, "query", query, "results", len(results))
	return results, nil
}

// KeywordIndex is a lexical model index. *hub.Client implements it.
type KeywordIndex interface {
	Search(ctx context.Context, query string, filters core.SearchFilters) ([]core.ModelResult, error)
}

// KeywordRetriever adapts a KeywordIndex to Retriever.
type KeywordRetriever struct {
	Index KeywordIndex
}

// Retrieve queries the index. topK is applied by the Searcher.
func (k KeywordRetriever) Retrieve(ctx context.Context, query string, filters core.SearchFilters, _ int) ([]core.ModelResult, error) {
	return k.Index.Search(ctx, query, filters)
}
