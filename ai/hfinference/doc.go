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

// Package hfinference provides an ai.Embedder for hosted feature-extraction
// pipelines.
//
// A request is a POST of {"inputs": ["text", ...]} with a bearer token. The
// response must be a JSON array holding one equally sized float array per
// input. Anything else is a *core.EmbeddingError; HTTP failures are
// *core.TransportError values carrying the status so callers can tell a
// sleeping backend (502, 503, 504) from a real failure.
//
// The HTTP call is plugged into langchaingo as an embeddings.EmbedderClientFunc,
// which handles batching and newline stripping.
package hfinference
