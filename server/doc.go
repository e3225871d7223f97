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

// Package server exposes the local semantic retriever over HTTP in the
// shape remote clients expect from a vector-search backend.
//
// Routes:
//
//	POST /semantic_search  {"query": "...", "top_k": 10} -> [row, ...]
//	GET  /info             {"status": "ok", "models": N, "records": M}
//
// The /info route doubles as the warm-up probe target for clients that
// wake a sleeping backend before retrying.
package server
