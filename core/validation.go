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

package core

import (
	"fmt"
	"strings"
)

// ValidateFilters checks that every set filter belongs to its closed set.
//
// Validation rules:
//   - Task, when set, is one of Tasks
//   - Size, when set, is small, medium or large
//   - MinDownloads and MinLikes are not negative
func ValidateFilters(f SearchFilters) error {
	if _, err := ParseTask(string(f.Task)); err != nil {
		return err
	}
	if _, err := ParseSizeBucket(string(f.Size)); err != nil {
		return err
	}
	if f.MinDownloads < 0 {
		return fmt.Errorf("%w: minDownloads cannot be negative", ErrInvalidFilter)
	}
	if f.MinLikes < 0 {
		return fmt.Errorf("%w: minLikes cannot be negative", ErrInvalidFilter)
	}
	return nil
}

// ValidateCatalogModel requires a non-blank id. All other fields are optional.
func ValidateCatalogModel(m *CatalogModel) error {
	if m == nil || strings.TrimSpace(m.ID) == "" {
		return ErrEmptyModelID
	}
	return nil
}

// ValidateEmbeddingRecord requires a model id and a vector.
//
// NOT validated:
//   - that ModelID exists in the catalog (rankers tolerate dangling ids)
//   - dimensionality (checked against the query vector at rank time)
func ValidateEmbeddingRecord(r *EmbeddingRecord) error {
	if r == nil || strings.TrimSpace(r.ModelID) == "" {
		return ErrEmptyModelID
	}
	if len(r.Embedding) == 0 {
		return fmt.Errorf("%w: model %s", ErrEmptyEmbedding, r.ModelID)
	}
	return nil
}
