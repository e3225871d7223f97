package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/poiesic/modelscout/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "image classification")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "image classification")
	require.NoError(t, err)
	c, err := m.EmbedText(ctx, "speech to text")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, DefaultDimension)
	assert.InDelta(t, 1.0, vector.Norm(a), 1e-5)
	assert.Equal(t, 3, m.CallCount())
}

func TestMockEmbedderBatchMatchesSingle(t *testing.T) {
	m := &MockEmbedder{Dimension: 8}
	ctx := context.Background()

	batch, err := m.EmbedTexts(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, batch, 2)

	single, err := m.EmbedText(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, single, batch[1])
	assert.Equal(t, Vector("b", 8), single)
}

func TestMockEmbedderConcurrentCallCount(t *testing.T) {
	m := NewMockEmbedder()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.EmbedText(context.Background(), "x")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, m.CallCount())
	m.Reset()
	assert.Equal(t, 0, m.CallCount())
}
