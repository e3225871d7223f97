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

// Package ai provides the query embedding abstraction used by semantic search.
//
// The package defines the Embedder interface and its configuration. Business
// logic depends on the interface; concrete clients live in sub-packages:
//
//   - ai/hfinference: hosted feature-extraction pipelines ({"inputs": [...]})
//   - ai/openai: OpenAI-compatible embedding APIs through langchaingo
//   - ai/mock: deterministic test doubles
//
// Every Embedder returns L2-normalized vectors, so a dot product against the
// precomputed catalog embeddings is the cosine similarity.
//
// Embedders never retry. Whether a failure is worth retrying depends on
// whether the backend is cold, which only the resilient package decides.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithToken(os.Getenv("HF_TOKEN")))
//	embedder, err := hfinference.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err) // errors.Is(err, core.ErrConfiguration) when the token is missing
//	}
//	vec, err := embedder.EmbedText(ctx, "small ViT for image classification")
package ai
