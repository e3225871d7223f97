package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/modelscout/core"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Source fetches the two static artifacts.
type Source interface {
	FetchCatalog(ctx context.Context) ([]core.CatalogModel, error)
	FetchEmbeddings(ctx context.Context) ([]core.EmbeddingRecord, error)
}

// Store loads the catalog and embedding table once and shares the result.
//
// Concurrent first callers wait on a single in-flight load. The first
// successful load is kept for the life of the Store and never refreshed.
// A failed load is not cached, so the next call tries again.
type Store struct {
	source Source
	logger *slog.Logger
	group  singleflight.Group

	mu   sync.RWMutex
	snap *core.Snapshot
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "catalog-store")
		return nil
	}
}

// NewStore creates a store backed by source.
func NewStore(source Source, opts ...Option) (*Store, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	s := &Store{
		source: source,
		logger: slog.Default().With("component", "catalog-store"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load returns the shared snapshot, fetching it on first use.
//
// A catalog fetch failure degrades to an empty catalog. An embeddings
// fetch failure, or an embedding table with no usable rows, is a
// *core.DataLoadError. Cancelling ctx abandons the wait but not the shared
// fetch, which other callers may still be waiting on.
func (s *Store) Load(ctx context.Context) (*core.Snapshot, error) {
	if snap := s.cached(); snap != nil {
		return snap, nil
	}

	ch := s.group.DoChan("load", func() (any, error) {
		if snap := s.cached(); snap != nil {
			return snap, nil
		}
		snap, err := s.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.snap = snap
		s.mu.Unlock()
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*core.Snapshot), nil
	}
}

// Loaded reports whether a snapshot is cached.
func (s *Store) Loaded() bool {
	return s.cached() != nil
}

func (s *Store) cached() *core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) load(ctx context.Context) (*core.Snapshot, error) {
	var (
		models  []core.CatalogModel
		records []core.EmbeddingRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := s.source.FetchCatalog(gctx)
		if err != nil {
			s.logger.Warn("catalog unavailable, continuing without metadata", "err", err)
			return nil
		}
		models = validModels(fetched, s.logger)
		return nil
	})
	g.Go(func() error {
		fetched, err := s.source.FetchEmbeddings(gctx)
		if err != nil {
			return asDataLoadError("embeddings", err)
		}
		records = validRecords(fetched, s.logger)
		if len(records) == 0 {
			return &core.DataLoadError{Artifact: "embeddings", Err: ErrNoEmbeddings}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load artifacts", "err", err)
		return nil, err
	}

	s.logger.Info("catalog loaded", "models", len(models), "records", len(records))
	return core.NewSnapshot(models, records), nil
}

func validModels(in []core.CatalogModel, logger *slog.Logger) []core.CatalogModel {
	out := make([]core.CatalogModel, 0, len(in))
	for i := range in {
		if err := core.ValidateCatalogModel(&in[i]); err != nil {
			logger.Warn("skipping catalog entry", "index", i, "err", err)
			continue
		}
		out = append(out, in[i])
	}
	return out
}

func validRecords(in []core.EmbeddingRecord, logger *slog.Logger) []core.EmbeddingRecord {
	out := make([]core.EmbeddingRecord, 0, len(in))
	skipped := 0
	for i := range in {
		if err := core.ValidateEmbeddingRecord(&in[i]); err != nil {
			skipped++
			continue
		}
		out = append(out, in[i])
	}
	if skipped > 0 {
		logger.Warn("skipped invalid embedding records", "count", skipped)
	}
	return out
}
