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

// Package storage provides the persistence abstraction for the offline
// artifact mirror.
//
// A mirror holds a copy of the catalog and embedding artifacts so the
// catalog store can load them from local disk instead of the hosting origin.
// Implementations live in subpackages:
//
//	repo, err := badger.OpenRepository("/var/lib/modelscout")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// All repository implementations must be safe for concurrent use.
//
// # Serialization
//
// Values are stored in the same JSON form the artifacts use, so a mirrored
// row decodes exactly as it would from the published files.
package storage
