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

// Package semantic implements the two embedding-similarity retrieval paths.
//
// LocalRetriever embeds the query through an ai.Embedder and ranks it
// against the precomputed catalog embeddings in-process. RemoteRetriever
// sends the query to a vector-search backend that does the same work and
// returns scored rows. Both run their remote call through a
// resilient.Client, so a cold backend is probed and retried once.
//
// Neither path filters or enriches its results; the search package does
// that uniformly for every retrieval path.
package semantic
