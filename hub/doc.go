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

// Package hub is a client for the public model hub's index.
//
// Client.Search is the keyword retrieval path: a single lexical query sorted
// by downloads, optionally narrowed by a pipeline tag. Client.ModelInfo
// fetches one model's record.
//
// Enricher uses ModelInfo to backfill download counts, likes and license on
// semantic results, whose backend does not always report them. Lookups run
// concurrently on an ants worker pool and are memoized in a bounded,
// expiring LRU keyed by model id. Enrichment is best effort: a failed
// lookup leaves the fields absent and never fails the query.
package hub
