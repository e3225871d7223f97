package rank

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/vector"
)

// DefaultTopK is used when a caller passes topK <= 0.
const DefaultTopK = 10

// Ranker scores embedding records against a query vector.
// A Ranker holds no per-query state and is safe for concurrent use.
type Ranker struct {
	minSimilarity *float32
	logger        *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "ranker")
		return nil
	}
}

// WithMinSimilarity drops models whose best score is below min.
// Disabled by default.
func WithMinSimilarity(min float32) Option {
	return func(r *Ranker) error {
		if min < -1 || min > 1 {
			return ErrInvalidMinSimilarity
		}
		r.minSimilarity = &min
		return nil
	}
}

// NewRanker creates a new ranker.
func NewRanker(opts ...Option) (*Ranker, error) {
	r := &Ranker{
		logger: slog.Default().With("component", "ranker"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// hit is the best score seen so far for one model.
type hit struct {
	modelID string
	score   float32
	phrase  string
}

// Rank returns at most topK results, one per model, ordered by descending
// similarity. Each model is scored by its best-matching record, and that
// record's phrase becomes MatchedQuery. Ties keep the order in which models
// first appear in records. Models missing from snap get empty metadata.
//
// Records whose dimensionality differs from the query are compared over the
// shared prefix.
func (r *Ranker) Rank(query []float32, records []core.EmbeddingRecord, snap *core.Snapshot, topK int) []core.ModelResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	best := make(map[string]int, len(records))
	hits := make([]hit, 0, len(records))
	mismatched := 0

	for _, rec := range records {
		if len(rec.Embedding) != len(query) {
			mismatched++
		}
		score := vector.Dot(query, rec.Embedding)

		i, seen := best[rec.ModelID]
		if !seen {
			best[rec.ModelID] = len(hits)
			hits = append(hits, hit{modelID: rec.ModelID, score: score, phrase: rec.Phrase()})
			continue
		}
		if score > hits[i].score {
			hits[i].score = score
			hits[i].phrase = rec.Phrase()
		}
	}

	if mismatched > 0 {
		r.logger.Debug("embedding dimension mismatch, comparing shared prefix",
			"queryDim", len(query), "records", mismatched)
	}

	if r.minSimilarity != nil {
		hits = slices.DeleteFunc(hits, func(h hit) bool {
			return h.score < *r.minSimilarity
		})
	}

	slices.SortStableFunc(hits, func(a, b hit) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	results := make([]core.ModelResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, toResult(h, snap))
	}
	return results
}

func toResult(h hit, snap *core.Snapshot) core.ModelResult {
	res := core.ModelResult{
		ID:           h.modelID,
		URL:          core.HubURL(h.modelID),
		Similarity:   core.Ptr(h.score),
		Provider:     core.ProviderSemantic,
		MatchedQuery: h.phrase,
	}

	m, ok := snap.Model(h.modelID)
	if !ok {
		return res
	}
	res.Name = m.Name
	res.Description = m.Name
	res.Task = m.PrimaryTask()
	res.Tags = slices.Clone([]string(m.Tasks))
	res.Params = m.Params.Ptr()
	res.Framework = strings.Join(m.Framework, ", ")
	res.License = m.License
	res.URL = m.Link()
	return res
}
