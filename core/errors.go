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
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	// ErrConfiguration indicates a required setting, such as an API credential, is missing.
	// It is never retried; an operator has to fix it.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidMode indicates an unknown search mode.
	ErrInvalidMode = errors.New("invalid search mode")

	// ErrInvalidFilter indicates a SearchFilters value outside its closed set.
	ErrInvalidFilter = errors.New("invalid search filter")

	// ErrEmptyModelID indicates a catalog entry or embedding record without a model id.
	ErrEmptyModelID = errors.New("model id cannot be empty")

	// ErrEmptyEmbedding indicates an embedding record without a vector.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")

	// ErrBackendColdStart matches any *ColdStartError via errors.Is.
	ErrBackendColdStart = errors.New("semantic backend cold start")
)

// EmbeddingError reports a malformed response from an embedding endpoint.
type EmbeddingError struct {
	Reason string
}

func (e *EmbeddingError) Error() string {
	return "malformed embedding response: " + e.Reason
}

// TransportError reports a failed call to a remote collaborator.
// StatusCode is zero when the request never produced an HTTP response.
type TransportError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.StatusCode != 0 {
		b.WriteString(" failed: ")
		if e.Status != "" {
			b.WriteString(e.Status)
		} else {
			fmt.Fprintf(&b, "%d", e.StatusCode)
		}
		if body := strings.TrimSpace(e.Body); body != "" {
			if len(body) > 200 {
				body = body[:200] + "..."
			}
			b.WriteString(" - ")
			b.WriteString(body)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ColdStartError is returned once the single warm-up retry against a sleeping
// backend has also failed.
type ColdStartError struct {
	Err error
}

func (e *ColdStartError) Error() string {
	msg := "semantic backend is waking up, retry shortly or switch to keyword mode"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ColdStartError) Unwrap() error {
	return e.Err
}

func (e *ColdStartError) Is(target error) bool {
	return target == ErrBackendColdStart
}

// DataLoadError reports a missing or malformed static artifact.
type DataLoadError struct {
	Artifact string
	Err      error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Artifact, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
