package hub

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/modelscout/core"
)

const (
	// DefaultMemoSize bounds the number of memoized models.
	DefaultMemoSize = 1024

	// DefaultMemoTTL is how long a memoized lookup stays fresh.
	DefaultMemoTTL = 30 * time.Minute
)

// MetadataFetcher looks up one model's hub metadata. *Client implements it.
type MetadataFetcher interface {
	ModelInfo(ctx context.Context, id string) (core.ModelResult, error)
}

// Enricher backfills downloads, likes and license on results that lack
// them. Lookups fan out on a worker pool and are memoized by model id.
// Failed lookups are logged and leave the fields absent.
type Enricher struct {
	fetcher MetadataFetcher
	pool    *ants.Pool
	memo    *expirable.LRU[string, core.ModelResult]
	logger  *slog.Logger

	memoSize int
	memoTTL  time.Duration
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher) error

// WithPoolSize sets the number of concurrent lookups.
// Default is runtime.NumCPU(), with a minimum of 4.
func WithPoolSize(size int) EnricherOption {
	return func(e *Enricher) error {
		if size < 1 {
			size = 1
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := newPool(size, e.logger)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithMemo sets the memo capacity and entry lifetime.
func WithMemo(size int, ttl time.Duration) EnricherOption {
	return func(e *Enricher) error {
		if size < 1 || ttl <= 0 {
			return fmt.Errorf("invalid memo size %d or ttl %s", size, ttl)
		}
		e.memoSize = size
		e.memoTTL = ttl
		return nil
	}
}

// WithEnricherLogger sets a custom logger.
// Default is slog.Default().
func WithEnricherLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "hub-enricher")
		return nil
	}
}

// NewEnricher creates an enricher. Call Release when done with it.
func NewEnricher(fetcher MetadataFetcher, opts ...EnricherOption) (*Enricher, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}

	e := &Enricher{
		fetcher:  fetcher,
		logger:   slog.Default().With("component", "hub-enricher"),
		memoSize: DefaultMemoSize,
		memoTTL:  DefaultMemoTTL,
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Release()
			return nil, err
		}
	}

	if e.pool == nil {
		pool, err := newPool(max(runtime.NumCPU(), 4), e.logger)
		if err != nil {
			return nil, err
		}
		e.pool = pool
	}
	e.memo = expirable.NewLRU[string, core.ModelResult](e.memoSize, nil, e.memoTTL)

	return e, nil
}

// Enrich returns a copy of results with missing stats filled in. Results
// that already carry downloads, likes and license are left alone. Enrich
// waits for every lookup it started, even if ctx is cancelled.
func (e *Enricher) Enrich(ctx context.Context, results []core.ModelResult) []core.ModelResult {
	out := make([]core.ModelResult, len(results))
	copy(out, results)

	var wg sync.WaitGroup
	for i := range out {
		if !out[i].NeedsEnrichment() {
			continue
		}
		if info, ok := e.memo.Get(out[i].ID); ok {
			merge(&out[i], info)
			continue
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			info, err := e.fetcher.ModelInfo(ctx, out[i].ID)
			if err != nil {
				e.logger.Warn("metadata lookup failed", "model", out[i].ID, "err", err)
				return
			}
			e.memo.Add(out[i].ID, info)
			merge(&out[i], info)
		}
		if err := e.pool.Submit(task); err != nil {
			wg.Done()
			e.logger.Warn("could not schedule metadata lookup", "model", out[i].ID, "err", err)
		}
	}
	wg.Wait()

	return out
}

// Release stops the worker pool.
func (e *Enricher) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// merge fills fields that r lacks from info. Each goroutine writes a
// distinct element.
func merge(r *core.ModelResult, info core.ModelResult) {
	if r.Downloads == nil {
		r.Downloads = info.Downloads
	}
	if r.Likes == nil {
		r.Likes = info.Likes
	}
	if r.License == "" {
		r.License = info.License
	}
}

func newPool(size int, logger *slog.Logger) (*ants.Pool, error) {
	return ants.NewPool(size, ants.WithLogger(poolLogger{logger}))
}

// poolLogger routes ants diagnostics to slog.
type poolLogger struct {
	logger *slog.Logger
}

func (l poolLogger) Printf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}
