package rank

import (
	"fmt"
	"testing"

	"github.com/poiesic/modelscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRanker(t *testing.T, opts ...Option) *Ranker {
	t.Helper()
	r, err := NewRanker(opts...)
	require.NoError(t, err)
	return r
}

// unit returns a 2-d unit vector whose dot product with (1, 0) is x.
func unit(x float32) []float32 {
	y := float32(0)
	if x < 1 {
		y = sqrt32(1 - x*x)
	}
	return []float32{x, y}
}

func sqrt32(v float32) float32 {
	z := v
	for i := 0; i < 30; i++ {
		z = (z + v/z) / 2
	}
	return z
}

var query = []float32{1, 0}

func TestRankKeepsBestRecordPerModel(t *testing.T) {
	records := []core.EmbeddingRecord{
		{ModelID: "org/vit", Level: "beginner", Query: "photo sorter", Embedding: unit(0.4)},
		{ModelID: "org/vit", Level: "expert", Query: "vision transformer", Embedding: unit(0.9)},
	}
	snap := core.NewSnapshot([]core.CatalogModel{{ID: "org/vit", Name: "ViT"}}, records)

	results := newRanker(t).Rank(query, records, snap, 10)

	require.Len(t, results, 1)
	assert.Equal(t, "org/vit", results[0].ID)
	require.NotNil(t, results[0].Similarity)
	assert.InDelta(t, 0.9, *results[0].Similarity, 1e-5)
	assert.Equal(t, "vision transformer", results[0].MatchedQuery)
	assert.Equal(t, core.ProviderSemantic, results[0].Provider)
}

func TestRankTopKBound(t *testing.T) {
	records := []core.EmbeddingRecord{
		{ModelID: "a", Embedding: unit(0.3)},
		{ModelID: "b", Embedding: unit(0.5)},
		{ModelID: "c", Embedding: unit(0.7)},
	}
	r := newRanker(t)

	assert.Len(t, r.Rank(query, records, nil, 10), 3)
	assert.Len(t, r.Rank(query, records, nil, 2), 2)

	var many []core.EmbeddingRecord
	for i := 0; i < 25; i++ {
		many = append(many, core.EmbeddingRecord{ModelID: fmt.Sprintf("m%d", i), Embedding: unit(0.5)})
	}
	assert.Len(t, r.Rank(query, many, nil, 0), DefaultTopK, "non-positive topK falls back to the default")
}

func TestRankOrdering(t *testing.T) {
	records := []core.EmbeddingRecord{
		{ModelID: "low", Embedding: unit(0.2)},
		{ModelID: "tie-first", Embedding: unit(0.6)},
		{ModelID: "high", Embedding: unit(0.95)},
		{ModelID: "tie-second", Embedding: unit(0.6)},
	}

	results := newRanker(t).Rank(query, records, nil, 10)

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"high", "tie-first", "tie-second", "low"}, ids)
}

func TestRankAttachesCatalogMetadata(t *testing.T) {
	catalog := []core.CatalogModel{{
		ID:        "openai/whisper-small",
		Name:      "Whisper small",
		Tasks:     core.StringList{"automatic-speech-recognition", "audio"},
		Params:    core.Params(2.44e8),
		License:   "apache-2.0",
		Framework: core.StringList{"pytorch", "jax"},
	}}
	records := []core.EmbeddingRecord{
		{ModelID: "openai/whisper-small", Query: "transcribe audio", Embedding: unit(0.8)},
		{ModelID: "ghost/model", Query: "dangling", Embedding: unit(0.7)},
	}
	snap := core.NewSnapshot(catalog, records)

	results := newRanker(t).Rank(query, records, snap, 10)
	require.Len(t, results, 2)

	known := results[0]
	assert.Equal(t, "Whisper small", known.Name)
	assert.Equal(t, "automatic-speech-recognition", known.Task)
	assert.Equal(t, []string{"automatic-speech-recognition", "audio"}, known.Tags)
	require.NotNil(t, known.Params)
	assert.Equal(t, 2.44e8, *known.Params)
	assert.Equal(t, "pytorch, jax", known.Framework)
	assert.Equal(t, "apache-2.0", known.License)
	assert.Equal(t, "https://huggingface.co/openai/whisper-small", known.URL)

	dangling := results[1]
	assert.Equal(t, "ghost/model", dangling.ID)
	assert.Empty(t, dangling.Name)
	assert.Empty(t, dangling.Task)
	assert.Nil(t, dangling.Params)
	assert.Equal(t, "https://huggingface.co/ghost/model", dangling.URL)
}

func TestRankDimensionMismatchUsesPrefix(t *testing.T) {
	records := []core.EmbeddingRecord{
		{ModelID: "short", Embedding: []float32{1}},
		{ModelID: "long", Embedding: []float32{0.5, 0, 1}},
	}

	results := newRanker(t).Rank(query, records, nil, 10)

	require.Len(t, results, 2)
	assert.Equal(t, "short", results[0].ID)
	assert.InDelta(t, 1.0, *results[0].Similarity, 1e-6)
	assert.InDelta(t, 0.5, *results[1].Similarity, 1e-6)
}

func TestRankMinSimilarity(t *testing.T) {
	records := []core.EmbeddingRecord{
		{ModelID: "a", Embedding: unit(0.1)},
		{ModelID: "b", Embedding: unit(0.5)},
	}

	results := newRanker(t, WithMinSimilarity(0.2)).Rank(query, records, nil, 10)

	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].ID)

	_, err := NewRanker(WithMinSimilarity(2))
	assert.ErrorIs(t, err, ErrInvalidMinSimilarity)
}

func TestRankEmptyRecords(t *testing.T) {
	results := newRanker(t).Rank(query, nil, nil, 10)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
