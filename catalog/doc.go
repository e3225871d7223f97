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

// Package catalog loads the static model catalog and its precomputed
// embedding table.
//
// Both artifacts are produced offline and consumed read-only. Store fetches
// them concurrently on first use, shares a single in-flight fetch between
// concurrent callers, and keeps the result for the life of the process.
//
// Sources:
//
//   - HTTPSource: the JSON files served next to the application
//   - FileSource: local JSON files
//   - storage/badger.CatalogRepository: an offline mirror
//
// # Usage
//
//	src, err := catalog.NewHTTPSource("https://example.org", "", "")
//	if err != nil {
//	    return err
//	}
//	store, err := catalog.NewStore(src)
//	if err != nil {
//	    return err
//	}
//	snap, err := store.Load(ctx)
package catalog
