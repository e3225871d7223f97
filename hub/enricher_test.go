package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/modelscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFetcher is a MetadataFetcher with call counting.
type mockFetcher struct {
	mu    sync.Mutex
	calls map[string]int
	infos map[string]core.ModelResult
	fail  map[string]bool
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		calls: make(map[string]int),
		infos: make(map[string]core.ModelResult),
		fail:  make(map[string]bool),
	}
}

func (m *mockFetcher) ModelInfo(_ context.Context, id string) (core.ModelResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[id]++
	if m.fail[id] {
		return core.ModelResult{}, &core.TransportError{Op: "hub model info", StatusCode: 404}
	}
	return m.infos[id], nil
}

func (m *mockFetcher) CallCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

func newEnricher(t *testing.T, f MetadataFetcher, opts ...EnricherOption) *Enricher {
	t.Helper()
	e, err := NewEnricher(f, opts...)
	require.NoError(t, err)
	t.Cleanup(e.Release)
	return e
}

func TestEnrichBackfillsMissingFields(t *testing.T) {
	f := newMockFetcher()
	f.infos["a"] = core.ModelResult{ID: "a", Downloads: core.Ptr[int64](100), Likes: core.Ptr[int64](3), License: "mit"}
	f.infos["b"] = core.ModelResult{ID: "b", Downloads: core.Ptr[int64](5), Likes: core.Ptr[int64](1), License: "gpl"}
	e := newEnricher(t, f, WithPoolSize(2))

	in := []core.ModelResult{
		{ID: "a"},
		{ID: "b", License: "apache-2.0"},
		{ID: "c", Downloads: core.Ptr[int64](1), Likes: core.Ptr[int64](1), License: "bsd"},
	}
	out := e.Enrich(context.Background(), in)

	require.Len(t, out, 3)
	assert.Equal(t, int64(100), *out[0].Downloads)
	assert.Equal(t, "mit", out[0].License)
	assert.Equal(t, "apache-2.0", out[1].License, "existing values are kept")
	assert.Equal(t, int64(5), *out[1].Downloads)
	assert.Zero(t, f.CallCount("c"), "complete results are not looked up")

	assert.Nil(t, in[0].Downloads, "input is not modified")
}

func TestEnrichMemoAvoidsSecondLookup(t *testing.T) {
	f := newMockFetcher()
	f.infos["a"] = core.ModelResult{ID: "a", Downloads: core.Ptr[int64](1), Likes: core.Ptr[int64](1), License: "mit"}
	e := newEnricher(t, f)

	e.Enrich(context.Background(), []core.ModelResult{{ID: "a"}})
	out := e.Enrich(context.Background(), []core.ModelResult{{ID: "a"}})

	assert.Equal(t, 1, f.CallCount("a"))
	assert.Equal(t, "mit", out[0].License)
}

func TestEnrichFailureLeavesFieldsAbsent(t *testing.T) {
	f := newMockFetcher()
	f.fail["gone"] = true
	e := newEnricher(t, f)

	out := e.Enrich(context.Background(), []core.ModelResult{{ID: "gone"}})

	require.Len(t, out, 1)
	assert.Nil(t, out[0].Downloads)
	assert.Nil(t, out[0].Likes)
	assert.Empty(t, out[0].License)

	e.Enrich(context.Background(), []core.ModelResult{{ID: "gone"}})
	assert.Equal(t, 2, f.CallCount("gone"), "failures are not memoized")
}

func TestEnrichMemoExpires(t *testing.T) {
	f := newMockFetcher()
	f.infos["a"] = core.ModelResult{ID: "a", License: "mit"}
	e := newEnricher(t, f, WithMemo(8, 20*time.Millisecond))

	e.Enrich(context.Background(), []core.ModelResult{{ID: "a"}})
	time.Sleep(60 * time.Millisecond)
	e.Enrich(context.Background(), []core.ModelResult{{ID: "a"}})

	assert.Equal(t, 2, f.CallCount("a"))
}

func TestNewEnricherValidation(t *testing.T) {
	_, err := NewEnricher(nil)
	assert.True(t, errors.Is(err, ErrFetcherRequired))

	_, err = NewEnricher(newMockFetcher(), WithMemo(0, time.Minute))
	assert.Error(t, err)
}
