package storage

import (
	"testing"

	"github.com/poiesic/modelscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogModelSerialization(t *testing.T) {
	model := &core.CatalogModel{
		ID:             "BAAI/bge-small-en-v1.5",
		Name:           "BGE Small",
		Tasks:          core.StringList{"feature-extraction", "sentence-similarity"},
		Params:         core.Params(33e6),
		License:        "mit",
		Framework:      core.StringList{"pytorch", "onnx"},
		QueriesByLevel: map[string][]string{"beginner": {"turn text into numbers"}},
	}

	data, err := MarshalCatalogModel(model)
	require.NoError(t, err)

	decoded, err := UnmarshalCatalogModel(data)
	require.NoError(t, err)
	assert.Equal(t, model, decoded)
}

func TestCatalogModelSerialization_UnknownParams(t *testing.T) {
	model := &core.CatalogModel{ID: "a/b"}

	data, err := MarshalCatalogModel(model)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"params":null`)

	decoded, err := UnmarshalCatalogModel(data)
	require.NoError(t, err)
	assert.False(t, decoded.Params.Known)
}

func TestUnmarshal_Invalid(t *testing.T) {
	t.Run("empty model", func(t *testing.T) {
		_, err := UnmarshalCatalogModel(nil)
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("empty record", func(t *testing.T) {
		_, err := UnmarshalEmbeddingRecord([]byte{})
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("garbage model", func(t *testing.T) {
		_, err := UnmarshalCatalogModel([]byte{0xff, 0x00})
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("garbage record", func(t *testing.T) {
		_, err := UnmarshalEmbeddingRecord([]byte(`{"embedding": "nope"}`))
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}

func TestEmbeddingRecordSerialization(t *testing.T) {
	record := &core.EmbeddingRecord{
		ModelID:   "a/b",
		Level:     "expert",
		Query:     "dense retrieval encoder",
		Embedding: []float32{0.6, 0.8},
	}

	data, err := MarshalEmbeddingRecord(record)
	require.NoError(t, err)

	decoded, err := UnmarshalEmbeddingRecord(data)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}
