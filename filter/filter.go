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

package filter

import (
	"strings"

	"github.com/poiesic/modelscout/core"
)

// Keywords maps a task category to the substrings that identify it in a
// model's tags or pipeline tag. TaskOther has none: it matches what no
// other category claims.
var Keywords = map[core.Task][]string{
	core.TaskText:       {"text", "generation", "classification", "translation", "question-answering", "summarization", "fill-mask"},
	core.TaskVision:     {"image", "vision", "object-detection", "segmentation", "image-to-image", "depth"},
	core.TaskAudio:      {"audio", "speech", "text-to-speech", "automatic-speech-recognition"},
	core.TaskMultimodal: {"multimodal", "image-to-text", "text-to-image", "video", "vision-language", "visual-question-answering"},
	core.TaskEmbedding:  {"embedding", "sentence-similarity", "feature-extraction", "sentence-transformers"},
	core.TaskOther:      {},
}

// knownKeywords is the union of every category's keywords.
var knownKeywords = func() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, task := range core.Tasks {
		for _, kw := range Keywords[task] {
			if _, ok := seen[kw]; !ok {
				seen[kw] = struct{}{}
				out = append(out, kw)
			}
		}
	}
	return out
}()

// pipelineTags lists the hub pipeline tags per category. The first entry is
// the one sent to the keyword index.
var pipelineTags = map[core.Task][]string{
	core.TaskText:       {"text-generation", "text-classification", "token-classification", "question-answering", "summarization", "translation", "fill-mask", "text2text-generation"},
	core.TaskVision:     {"image-classification", "object-detection", "image-segmentation", "image-to-image", "depth-estimation"},
	core.TaskAudio:      {"automatic-speech-recognition", "audio-classification", "text-to-speech", "audio-to-audio"},
	core.TaskMultimodal: {"image-to-text", "text-to-image", "visual-question-answering", "document-question-answering", "video-classification"},
	core.TaskEmbedding:  {"sentence-similarity", "text-embedding"},
	core.TaskOther:      {"reinforcement-learning", "tabular-classification", "tabular-regression", "feature-extraction"},
}

// PipelineTags returns the hub pipeline tags for a task, or nil.
func PipelineTags(task core.Task) []string {
	return pipelineTags[task]
}

// Bounds is a half-open parameter range [Min, Max). A nil end is unbounded.
type Bounds struct {
	Min *float64
	Max *float64
}

var sizeRanges = map[core.SizeBucket]Bounds{
	core.SizeSmall:  {Max: core.Ptr(1e9)},
	core.SizeMedium: {Min: core.Ptr(1e9), Max: core.Ptr(1e10)},
	core.SizeLarge:  {Min: core.Ptr(1e10)},
}

// SizeBounds returns the parameter range of a bucket. The zero Bounds is
// returned for an unset or unknown bucket.
func SizeBounds(size core.SizeBucket) Bounds {
	return sizeRanges[size]
}

// Contains reports whether params falls in the range. Unknown params are
// never excluded.
func (b Bounds) Contains(params *float64) bool {
	if params == nil {
		return true
	}
	if b.Min != nil && *params < *b.Min {
		return false
	}
	if b.Max != nil && *params >= *b.Max {
		return false
	}
	return true
}

// Apply keeps the results that satisfy every set filter, preserving order.
// It never modifies its input.
func Apply(results []core.ModelResult, filters core.SearchFilters) []core.ModelResult {
	out := make([]core.ModelResult, 0, len(results))
	for _, r := range results {
		if Matches(r, filters) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single result passes all filters.
func Matches(r core.ModelResult, filters core.SearchFilters) bool {
	return MatchesSize(r.Params, filters.Size) &&
		MatchesTask(r.Task, r.Tags, filters.Task) &&
		MatchesPopularity(r, filters.MinDownloads, filters.MinLikes)
}

// MatchesSize passes when no bucket is set, when params is unknown, or when
// params falls in the bucket's half-open range.
func MatchesSize(params *float64, size core.SizeBucket) bool {
	if size == "" || params == nil {
		return true
	}
	b, ok := sizeRanges[size]
	if !ok {
		return true
	}
	return b.Contains(params)
}

// MatchesTask compares the primary task and the tags against a category's
// keywords by case-insensitive substring. TaskOther passes when no tag
// matches any known keyword, including when there are no tags at all.
func MatchesTask(primary string, tags []string, task core.Task) bool {
	if task == "" {
		return true
	}

	normalized := make([]string, 0, len(tags)+1)
	if primary != "" {
		normalized = append(normalized, strings.ToLower(primary))
	}
	for _, tag := range tags {
		if tag != "" {
			normalized = append(normalized, strings.ToLower(tag))
		}
	}

	if task == core.TaskOther {
		return len(normalized) == 0 || !containsAny(normalized, knownKeywords)
	}

	keywords := Keywords[task]
	if len(keywords) == 0 {
		return true
	}
	return containsAny(normalized, keywords)
}

// MatchesPopularity applies inclusive lower bounds. Missing counts are 0.
func MatchesPopularity(r core.ModelResult, minDownloads, minLikes int64) bool {
	var downloads, likes int64
	if r.Downloads != nil {
		downloads = *r.Downloads
	}
	if r.Likes != nil {
		likes = *r.Likes
	}
	return downloads >= minDownloads && likes >= minLikes
}

func containsAny(tags, keywords []string) bool {
	for _, tag := range tags {
		for _, kw := range keywords {
			if strings.Contains(tag, kw) {
				return true
			}
		}
	}
	return false
}
