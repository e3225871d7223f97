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

// Package rank turns a query vector and a table of embedding records into
// an ordered list of search results.
//
// Both the query and the records are expected to be unit vectors, so the dot
// product is the cosine similarity. A model usually has several records, one
// per phrasing of what it does; it appears once in the output with the score
// and phrase of its best match.
//
// # Usage
//
//	ranker, err := rank.NewRanker(rank.WithMinSimilarity(0.2))
//	if err != nil {
//	    return err
//	}
//	results := ranker.Rank(queryVec, snap.Records, snap, 10)
package rank
