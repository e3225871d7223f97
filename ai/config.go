// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/modelscout/core"
)

// Backend names an embedding API flavor.
type Backend string

const (
	// BackendHFInference posts {"inputs": [...]} to a hosted feature-extraction
	// pipeline and receives an array of float arrays. Requires a token.
	BackendHFInference Backend = "hf-inference"

	// BackendOpenAI uses an OpenAI-compatible /v1/embeddings API
	// (OpenAI, Ollama, vLLM, LocalAI).
	BackendOpenAI Backend = "openai"
)

const (
	// DefaultEmbeddingModel matches the model the shipped embedding artifacts were built with.
	DefaultEmbeddingModel = "BAAI/bge-small-en-v1.5"

	// DefaultEmbeddingURL is the hosted feature-extraction pipeline for DefaultEmbeddingModel.
	DefaultEmbeddingURL = "https://api-inference.huggingface.co/pipeline/feature-extraction/" + DefaultEmbeddingModel
)

// Config holds configuration for the query embedding endpoint.
type Config struct {
	// Backend selects the wire protocol. Default: BackendHFInference.
	Backend Backend

	// EmbeddingURL is the full endpoint for BackendHFInference, or the API
	// base URL for BackendOpenAI (a /v1 suffix is added when missing).
	EmbeddingURL string

	// EmbeddingModel is the model identifier. Only sent by BackendOpenAI.
	EmbeddingModel string

	// Token is the bearer credential. Required by BackendHFInference.
	Token string

	// Timeout bounds a single embedding call.
	// Default: 60s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend sets the embedding backend.
func WithBackend(backend Backend) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithEmbeddingURL sets the embedding endpoint.
func WithEmbeddingURL(url string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingURL = url
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithToken sets the bearer credential.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config for the hosted BGE-small feature-extraction pipeline.
// The token still has to be supplied.
func DefaultConfig() *Config {
	return &Config{
		Backend:        BackendHFInference,
		EmbeddingURL:   DefaultEmbeddingURL,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithToken(os.Getenv("HF_TOKEN")),
//	    WithTimeout(30*time.Second),
//	)
//
// Example with a local OpenAI-compatible server:
//
//	cfg := NewConfig(
//	    WithBackend(BackendOpenAI),
//	    WithEmbeddingURL("http://localhost:11434"),
//	    WithEmbeddingModel("bge-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize puts the configuration in canonical form.
func (c *Config) Normalize() {
	if c.Backend == "" {
		c.Backend = BackendHFInference
	}
	c.EmbeddingURL = strings.TrimSpace(c.EmbeddingURL)
	c.Token = strings.TrimSpace(c.Token)
	if c.Backend == BackendOpenAI && c.EmbeddingURL != "" && !strings.HasSuffix(c.EmbeddingURL, "/v1") {
		c.EmbeddingURL = strings.TrimSuffix(c.EmbeddingURL, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// A missing credential is reported as core.ErrConfiguration.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Backend {
	case BackendHFInference, BackendOpenAI:
	default:
		return fmt.Errorf("ai config: unknown backend %q", c.Backend)
	}
	if c.EmbeddingURL == "" {
		return errors.New("ai config: EmbeddingURL is required")
	}
	if c.Backend == BackendOpenAI && c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	if c.Backend == BackendHFInference && c.Token == "" {
		return fmt.Errorf("%w: ai config: Token is required for the %s backend", core.ErrConfiguration, c.Backend)
	}
	return nil
}
