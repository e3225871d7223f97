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

// Package search is the single entry point for finding models.
//
// A Searcher dispatches a query to one of two retrieval paths by mode:
//   - semantic: embedding similarity against the curated catalog
//   - keyword: a lexical query against the hub's model index
//
// Both paths return the same core.ModelResult shape. Semantic results are
// then enriched with hub statistics, and every result set passes through the
// same task, size and popularity filters, so callers never branch on mode.
//
// An empty query returns no results without touching the network. Keeping
// only the latest query's results on screen is the caller's job; Search
// honors context cancellation so stale queries can be abandoned.
package search
