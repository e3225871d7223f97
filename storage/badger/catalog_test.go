package badger

import (
	"context"
	"testing"

	"github.com/poiesic/modelscout/catalog"
	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *CatalogRepository {
	t.Helper()
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testModels() []core.CatalogModel {
	return []core.CatalogModel{
		{ID: "z/last-alphabetically", Tasks: core.StringList{"text-generation"}, Params: core.Params(7e9)},
		{ID: "a/first-alphabetically", Tasks: core.StringList{"image-classification"}, License: "apache-2.0"},
	}
}

func testRecords() []core.EmbeddingRecord {
	return []core.EmbeddingRecord{
		{ModelID: "z/last-alphabetically", Level: "expert", Query: "causal lm", Embedding: []float32{1, 0}},
		{ModelID: "a/first-alphabetically", Level: "beginner", Query: "what is in this photo", Embedding: []float32{0, 1}},
	}
}

func TestCatalogRepository_NeverMirrored(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.FetchCatalog(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.FetchEmbeddings(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Catalog.SavedAt.IsZero())
	assert.True(t, stats.Embeddings.SavedAt.IsZero())
}

func TestCatalogRepository_RoundTripPreservesOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCatalog(ctx, testModels()))
	require.NoError(t, repo.SaveEmbeddings(ctx, testRecords()))

	models, err := repo.FetchCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "z/last-alphabetically", models[0].ID)
	assert.Equal(t, 7e9, models[0].Params.Value)
	assert.Equal(t, "apache-2.0", models[1].License)

	records, err := repo.FetchEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, testRecords(), records)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Catalog.Count)
	assert.Equal(t, 2, stats.Embeddings.Count)
	assert.False(t, stats.Embeddings.SavedAt.IsZero())
}

func TestCatalogRepository_SaveReplaces(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCatalog(ctx, testModels()))
	require.NoError(t, repo.SaveCatalog(ctx, testModels()[:1]))

	models, err := repo.FetchCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "z/last-alphabetically", models[0].ID)
}

func TestCatalogRepository_EmptyArtifact(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveEmbeddings(ctx, nil))

	records, err := repo.FetchEmbeddings(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCatalogRepository_BacksCatalogStore(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveCatalog(ctx, testModels()))
	require.NoError(t, repo.SaveEmbeddings(ctx, testRecords()))

	store, err := catalog.NewStore(repo)
	require.NoError(t, err)

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"z/last-alphabetically", "a/first-alphabetically"}, snap.Order)
	assert.Len(t, snap.Records, 2)
}

func TestCatalogRepository_CloseOwnedBackend(t *testing.T) {
	repo, err := NewMemoryRepository()
	require.NoError(t, err)

	require.NoError(t, repo.Close())
	assert.True(t, repo.backend.IsClosed())
	require.NoError(t, repo.Close(), "second close is a no-op")
}

func TestCatalogRepository_SharedBackendStaysOpen(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	repo := NewCatalogRepository(backend)
	require.NoError(t, repo.Close())
	assert.False(t, backend.IsClosed())
}
