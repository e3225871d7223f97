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
	"encoding/json"
	"fmt"

	"github.com/poiesic/modelscout/core"
)

// MarshalCatalogModel serializes a CatalogModel to its artifact JSON form.
func MarshalCatalogModel(model *core.CatalogModel) ([]byte, error) {
	data, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalCatalogModel deserializes a CatalogModel.
func UnmarshalCatalogModel(data []byte) (*core.CatalogModel, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	var model core.CatalogModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &model, nil
}

// MarshalEmbeddingRecord serializes an EmbeddingRecord.
func MarshalEmbeddingRecord(record *core.EmbeddingRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalEmbeddingRecord deserializes an EmbeddingRecord.
func UnmarshalEmbeddingRecord(data []byte) (*core.EmbeddingRecord, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	var record core.EmbeddingRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalArtifactMeta serializes a mirror's bookkeeping entry.
func MarshalArtifactMeta(meta *ArtifactMeta) ([]byte, error) {
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalArtifactMeta deserializes a mirror's bookkeeping entry.
func UnmarshalArtifactMeta(data []byte) (*ArtifactMeta, error) {
	var meta ArtifactMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &meta, nil
}
