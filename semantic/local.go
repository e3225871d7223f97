package semantic

import (
	"context"
	"log/slog"

	"github.com/poiesic/modelscout/ai"
	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/rank"
	"github.com/poiesic/modelscout/resilient"
	"golang.org/x/sync/errgroup"
)

// Loader provides the shared catalog snapshot. *catalog.Store implements it.
type Loader interface {
	Load(ctx context.Context) (*core.Snapshot, error)
}

// LocalRetriever embeds the query and ranks it against the precomputed
// embedding table.
type LocalRetriever struct {
	loader   Loader
	embedder ai.Embedder
	client   *resilient.Client
	ranker   *rank.Ranker
	logger   *slog.Logger
}

// LocalOption configures a LocalRetriever.
type LocalOption func(*LocalRetriever) error

// WithLocalLogger sets a custom logger.
// Default is slog.Default().
func WithLocalLogger(logger *slog.Logger) LocalOption {
	return func(r *LocalRetriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "local-retriever")
		return nil
	}
}

// NewLocalRetriever creates a retriever. The embedding call runs through
// client so a sleeping embedding endpoint gets the warm-up retry.
func NewLocalRetriever(loader Loader, embedder ai.Embedder, client *resilient.Client, ranker *rank.Ranker, opts ...LocalOption) (*LocalRetriever, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if client == nil {
		return nil, ErrClientRequired
	}
	if ranker == nil {
		return nil, ErrRankerRequired
	}

	r := &LocalRetriever{
		loader:   loader,
		embedder: embedder,
		client:   client,
		ranker:   ranker,
		logger:   slog.Default().With("component", "local-retriever"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Retrieve loads the snapshot and embeds the query concurrently, then
// ranks. Filters are not applied here.
func (r *LocalRetriever) Retrieve(ctx context.Context, query string, _ core.SearchFilters, topK int) ([]core.ModelResult, error) {
	var (
		snap *core.Snapshot
		vec  []float32
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = r.loader.Load(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		vec, err = resilient.Call(gctx, r.client, func(ctx context.Context) ([]float32, error) {
			return r.embedder.EmbedText(ctx, query)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		r.logger.Error("semantic retrieval failed", "err", err)
		return nil, err
	}

	results := r.ranker.Rank(vec, snap.Records, snap, topK)
	r.logger.Debug("ranked catalog", "records", len(snap.Records), "results", len(results))
	return results, nil
}
