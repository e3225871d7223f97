package filter

import (
	"testing"

	"github.com/poiesic/modelscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesSizeBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		params   *float64
		size     core.SizeBucket
		expected bool
	}{
		{"1e9 excluded from small", core.Ptr(1e9), core.SizeSmall, false},
		{"1e9 included in medium", core.Ptr(1e9), core.SizeMedium, true},
		{"1e10 excluded from medium", core.Ptr(1e10), core.SizeMedium, false},
		{"1e10 included in large", core.Ptr(1e10), core.SizeLarge, true},
		{"just below 1e9 is small", core.Ptr(999_999_999.0), core.SizeSmall, true},
		{"zero is small", core.Ptr(0.0), core.SizeSmall, true},
		{"small not large", core.Ptr(3e8), core.SizeLarge, false},
		{"unset bucket passes", core.Ptr(7e12), "", true},
		{"unknown params pass small", nil, core.SizeSmall, true},
		{"unknown params pass medium", nil, core.SizeMedium, true},
		{"unknown params pass large", nil, core.SizeLarge, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesSize(tt.params, tt.size))
		})
	}
}

func TestMatchesTask(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		tags     []string
		task     core.Task
		expected bool
	}{
		{"unset task passes", "", nil, "", true},
		{"text generation", "text-generation", nil, core.TaskText, true},
		{"case insensitive", "Image-Classification", nil, core.TaskVision, true},
		{"match in tags", "", []string{"pytorch", "automatic-speech-recognition"}, core.TaskAudio, true},
		{"vision model is not audio", "image-classification", nil, core.TaskAudio, false},
		{"embedding category", "sentence-similarity", nil, core.TaskEmbedding, true},
		{"feature extraction counts as embedding", "feature-extraction", nil, core.TaskEmbedding, true},
		{"no tags passes other", "", nil, core.TaskOther, true},
		{"unclassifiable passes other", "reinforcement-learning", []string{"gym"}, core.TaskOther, true},
		{"known tag fails other", "text-generation", nil, core.TaskOther, false},
		{"no tags fails named task", "", nil, core.TaskText, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesTask(tt.primary, tt.tags, tt.task))
		})
	}
}

func TestMatchesPopularity(t *testing.T) {
	r := core.ModelResult{ID: "a", Downloads: core.Ptr[int64](100), Likes: core.Ptr[int64](5)}

	assert.True(t, MatchesPopularity(r, 100, 5), "bounds are inclusive")
	assert.False(t, MatchesPopularity(r, 101, 0))
	assert.False(t, MatchesPopularity(r, 0, 6))

	missing := core.ModelResult{ID: "b"}
	assert.True(t, MatchesPopularity(missing, 0, 0))
	assert.False(t, MatchesPopularity(missing, 1, 0))
}

func TestApply(t *testing.T) {
	results := []core.ModelResult{
		{ID: "small-text", Task: "text-generation", Params: core.Ptr(3e8)},
		{ID: "medium-text", Task: "text-generation", Params: core.Ptr(7e9)},
		{ID: "unknown-size-text", Task: "text-classification"},
		{ID: "small-vision", Task: "image-classification", Params: core.Ptr(8.6e7)},
	}

	t.Run("zero filters keep everything", func(t *testing.T) {
		out := Apply(results, core.SearchFilters{})
		assert.Equal(t, results, out)
	})

	t.Run("predicates combine with AND", func(t *testing.T) {
		out := Apply(results, core.SearchFilters{Task: core.TaskText, Size: core.SizeSmall})

		require.Len(t, out, 2)
		assert.Equal(t, "small-text", out[0].ID)
		assert.Equal(t, "unknown-size-text", out[1].ID)
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := append([]core.ModelResult(nil), results...)
		_ = Apply(in, core.SearchFilters{Size: core.SizeLarge})
		assert.Equal(t, results, in)
	})
}

func TestSizeBounds(t *testing.T) {
	b := SizeBounds(core.SizeMedium)
	require.NotNil(t, b.Min)
	require.NotNil(t, b.Max)
	assert.Equal(t, 1e9, *b.Min)
	assert.Equal(t, 1e10, *b.Max)

	assert.Nil(t, SizeBounds(core.SizeSmall).Min)
	assert.Nil(t, SizeBounds(core.SizeLarge).Max)
	assert.Equal(t, Bounds{}, SizeBounds(""))

	assert.True(t, b.Contains(core.Ptr(1e9)), "lower end is inclusive")
	assert.False(t, b.Contains(core.Ptr(1e10)), "upper end is exclusive")
	assert.False(t, b.Contains(core.Ptr(5e8)))
	assert.True(t, b.Contains(nil), "unknown params are kept")
	assert.True(t, Bounds{}.Contains(core.Ptr(1e12)))
}

func TestPipelineTags(t *testing.T) {
	assert.Equal(t, "text-generation", PipelineTags(core.TaskText)[0])
	assert.Equal(t, "sentence-similarity", PipelineTags(core.TaskEmbedding)[0])
	assert.Nil(t, PipelineTags(""))
}
