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

// Package openai provides an ai.Embedder for OpenAI-compatible embedding APIs.
//
// The client is langchaingo's OpenAI LLM, so anything speaking the
// /v1/embeddings protocol works (OpenAI, Ollama, LocalAI, vLLM). Outputs are
// L2-normalized before they are returned.
//
// # Usage
//
//	cfg := ai.NewConfig(
//	    ai.WithBackend(ai.BackendOpenAI),
//	    ai.WithEmbeddingURL("http://localhost:11434"), // /v1 added automatically
//	    ai.WithEmbeddingModel("bge-small"),
//	)
//
//	embedder, err := openai.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vec, err := embedder.EmbedText(ctx, "speech recognition for podcasts")
package openai
