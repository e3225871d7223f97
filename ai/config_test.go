package ai

import (
	"testing"
	"time"

	"github.com/poiesic/modelscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, BackendHFInference, cfg.Backend)
	assert.Equal(t, DefaultEmbeddingURL, cfg.EmbeddingURL)
	assert.Equal(t, "BAAI/bge-small-en-v1.5", cfg.EmbeddingModel)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.Token)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.Equal(t, DefaultEmbeddingURL, cfg.EmbeddingURL)
		assert.Equal(t, BackendHFInference, cfg.Backend)
	})

	t.Run("with token and timeout", func(t *testing.T) {
		cfg := NewConfig(WithToken("hf_abc"), WithTimeout(5*time.Second))

		assert.Equal(t, "hf_abc", cfg.Token)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("with openai backend", func(t *testing.T) {
		cfg := NewConfig(
			WithBackend(BackendOpenAI),
			WithEmbeddingURL("http://localhost:11434"),
			WithEmbeddingModel("bge-small"),
		)

		assert.Equal(t, BackendOpenAI, cfg.Backend)
		assert.Equal(t, "http://localhost:11434", cfg.EmbeddingURL)
		assert.Equal(t, "bge-small", cfg.EmbeddingModel)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		backend  Backend
		url      string
		expected string
	}{
		{
			name:     "openai already has /v1",
			backend:  BackendOpenAI,
			url:      "http://localhost:11434/v1",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "openai missing /v1",
			backend:  BackendOpenAI,
			url:      "http://localhost:11434",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "openai trailing slash",
			backend:  BackendOpenAI,
			url:      "http://localhost:11434/",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "hf-inference url untouched",
			backend:  BackendHFInference,
			url:      "https://example.com/pipeline/feature-extraction/m",
			expected: "https://example.com/pipeline/feature-extraction/m",
		},
		{
			name:     "empty url",
			backend:  BackendOpenAI,
			url:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Backend: tt.backend, EmbeddingURL: tt.url}

			cfg.Normalize()

			assert.Equal(t, tt.expected, cfg.EmbeddingURL)
		})
	}

	t.Run("empty backend defaults to hf-inference", func(t *testing.T) {
		cfg := &Config{}
		cfg.Normalize()
		assert.Equal(t, BackendHFInference, cfg.Backend)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid hf-inference config", func(t *testing.T) {
		cfg := NewConfig(WithToken("hf_abc"))
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing token is a configuration error", func(t *testing.T) {
		cfg := NewConfig()

		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrConfiguration)
		assert.Contains(t, err.Error(), "Token")
	})

	t.Run("blank token is a configuration error", func(t *testing.T) {
		cfg := NewConfig(WithToken("   "))
		assert.ErrorIs(t, cfg.Validate(), core.ErrConfiguration)
	})

	t.Run("openai backend does not need a token", func(t *testing.T) {
		cfg := NewConfig(
			WithBackend(BackendOpenAI),
			WithEmbeddingURL("http://localhost:11434"),
		)

		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingURL)
	})

	t.Run("openai backend needs a model", func(t *testing.T) {
		cfg := NewConfig(
			WithBackend(BackendOpenAI),
			WithEmbeddingURL("http://localhost:11434"),
			WithEmbeddingModel(""),
		)

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})

	t.Run("missing url", func(t *testing.T) {
		cfg := NewConfig(WithToken("hf_abc"), WithEmbeddingURL(""))

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingURL")
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := NewConfig(WithToken("hf_abc"), WithBackend("grpc"))

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown backend")
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := NewConfig(WithToken("hf_abc"), WithTimeout(0))

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Timeout")
	})
}
