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

package storage

import (
	"context"
	"time"

	"github.com/poiesic/modelscout/core"
)

// CatalogRepository persists a local mirror of the catalog and embedding
// artifacts so searches can run without reaching the hosting origin.
type CatalogRepository interface {
	// SaveCatalog replaces the mirrored catalog. Artifact order is preserved.
	SaveCatalog(ctx context.Context, models []core.CatalogModel) error

	// SaveEmbeddings replaces the mirrored embedding table.
	SaveEmbeddings(ctx context.Context, records []core.EmbeddingRecord) error

	// FetchCatalog returns the mirrored catalog in artifact order.
	// Returns ErrNotFound if no catalog has been saved.
	FetchCatalog(ctx context.Context) ([]core.CatalogModel, error)

	// FetchEmbeddings returns the mirrored embedding table in artifact order.
	// Returns ErrNotFound if no embeddings have been saved.
	FetchEmbeddings(ctx context.Context) ([]core.EmbeddingRecord, error)

	// Stats reports what the mirror currently holds.
	Stats(ctx context.Context) (MirrorStats, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// ArtifactMeta records when an artifact was mirrored and how many rows it had.
type ArtifactMeta struct {
	Count   int       `json:"count"`
	SavedAt time.Time `json:"saved_at"`
}

// MirrorStats summarizes a mirror's contents. A zero SavedAt means the
// artifact was never mirrored.
type MirrorStats struct {
	Catalog    ArtifactMeta
	Embeddings ArtifactMeta
}
