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

package badger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/modelscout/catalog"
	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend     *Backend
	ownsBackend bool
	logger      *slog.Logger
}

var (
	_ storage.CatalogRepository = (*CatalogRepository)(nil)
	_ catalog.Source            = (*CatalogRepository)(nil)
)

// NewCatalogRepository creates a CatalogRepository on a shared backend.
// The caller keeps ownership of the backend.
func NewCatalogRepository(backend *Backend) *CatalogRepository {
	return &CatalogRepository{
		backend: backend,
		logger:  slog.Default().With("component", "catalog-mirror"),
	}
}

// OpenRepository opens (or creates) a mirror at path. Closing the
// repository closes the database.
//
// Returns storage.CatalogRepository interface to enforce abstraction.
func OpenRepository(path string) (storage.CatalogRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	repo := NewCatalogRepository(backend)
	repo.ownsBackend = true
	return repo, nil
}

// Close closes the backend if this repository opened it.
func (r *CatalogRepository) Close() error {
	if r.ownsBackend && !r.backend.IsClosed() {
		return r.backend.Close()
	}
	return nil
}

// SaveCatalog replaces the mirrored catalog.
func (r *CatalogRepository) SaveCatalog(ctx context.Context, models []core.CatalogModel) error {
	values := make([][]byte, 0, len(models))
	for i := range models {
		value, err := storage.MarshalCatalogModel(&models[i])
		if err != nil {
			return err
		}
		values = append(values, value)
	}
	if err := r.replace(ctx, catalogModelPrefix, catalogMetaKey, values); err != nil {
		return err
	}
	r.logger.Info("mirrored catalog", "models", len(values))
	return nil
}

// SaveEmbeddings replaces the mirrored embedding table.
func (r *CatalogRepository) SaveEmbeddings(ctx context.Context, records []core.EmbeddingRecord) error {
	values := make([][]byte, 0, len(records))
	for i := range records {
		value, err := storage.MarshalEmbeddingRecord(&records[i])
		if err != nil {
			return err
		}
		values = append(values, value)
	}
	if err := r.replace(ctx, embeddingRecordPrefix, embeddingsMetaKey, values); err != nil {
		return err
	}
	r.logger.Info("mirrored embeddings", "records", len(values))
	return nil
}

// replace clears the artifact's meta entry first so a half-written artifact
// reads as never mirrored.
func (r *CatalogRepository) replace(ctx context.Context, prefix, metaKey string, values [][]byte) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete([]byte(metaKey)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	if err := r.backend.ReplacePrefix(ctx, prefix, values); err != nil {
		return err
	}

	meta := &storage.ArtifactMeta{Count: len(values), SavedAt: time.Now().UTC()}
	data, err := storage.MarshalArtifactMeta(meta)
	if err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(metaKey), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FetchCatalog returns the mirrored catalog in artifact order.
func (r *CatalogRepository) FetchCatalog(ctx context.Context) ([]core.CatalogModel, error) {
	meta, err := r.readMeta(catalogMetaKey)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, storage.ErrNotFound
	}

	models := make([]core.CatalogModel, 0, meta.Count)
	err = r.backend.ScanPrefix(ctx, catalogModelPrefix, func(val []byte) error {
		model, err := storage.UnmarshalCatalogModel(val)
		if err != nil {
			return err
		}
		models = append(models, *model)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return models, nil
}

// FetchEmbeddings returns the mirrored embedding table in artifact order.
func (r *CatalogRepository) FetchEmbeddings(ctx context.Context) ([]core.EmbeddingRecord, error) {
	meta, err := r.readMeta(embeddingsMetaKey)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, storage.ErrNotFound
	}

	records := make([]core.EmbeddingRecord, 0, meta.Count)
	err = r.backend.ScanPrefix(ctx, embeddingRecordPrefix, func(val []byte) error {
		record, err := storage.UnmarshalEmbeddingRecord(val)
		if err != nil {
			return err
		}
		records = append(records, *record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Stats reports row counts and save times. Artifacts never mirrored have
// zero values.
func (r *CatalogRepository) Stats(ctx context.Context) (storage.MirrorStats, error) {
	var stats storage.MirrorStats
	catMeta, err := r.readMeta(catalogMetaKey)
	if err != nil {
		return stats, err
	}
	if catMeta != nil {
		stats.Catalog = *catMeta
	}
	embMeta, err := r.readMeta(embeddingsMetaKey)
	if err != nil {
		return stats, err
	}
	if embMeta != nil {
		stats.Embeddings = *embMeta
	}
	return stats, nil
}

// readMeta returns nil, nil if the artifact was never mirrored.
func (r *CatalogRepository) readMeta(key string) (*storage.ArtifactMeta, error) {
	var meta *storage.ArtifactMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			meta, unmarshalErr = storage.UnmarshalArtifactMeta(val)
			return unmarshalErr
		})
	}, false)
	return meta, err
}
