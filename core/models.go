package core

import (
	"fmt"
	"strings"
)

// HubBaseURL is the public model hub that catalog ids resolve against.
const HubBaseURL = "https://huggingface.co"

// HubURL returns the hub page for a model id.
func HubURL(id string) string {
	return HubBaseURL + "/" + id
}

// Mode selects the retrieval strategy for a query.
type Mode int

const (
	// ModeSemantic ranks catalog models by embedding similarity.
	ModeSemantic Mode = iota + 1
	// ModeKeyword queries the hub's lexical index.
	ModeKeyword
)

func (m Mode) String() string {
	switch m {
	case ModeSemantic:
		return "semantic"
	case ModeKeyword:
		return "keyword"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "semantic" or "keyword".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "semantic":
		return ModeSemantic, nil
	case "keyword":
		return ModeKeyword, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Provider tags which retrieval path produced a result.
type Provider string

const (
	ProviderSemantic Provider = "semantic"
	ProviderKeyword  Provider = "keyword"
)

// Task is the closed set of task categories a search can be filtered by.
type Task string

const (
	TaskText       Task = "text"
	TaskVision     Task = "vision"
	TaskAudio      Task = "audio"
	TaskMultimodal Task = "multimodal"
	TaskEmbedding  Task = "embedding"
	TaskOther      Task = "other"
)

// Tasks lists every Task in display order.
var Tasks = []Task{TaskText, TaskVision, TaskAudio, TaskMultimodal, TaskEmbedding, TaskOther}

// ParseTask parses a task category. The empty string means "no filter".
func ParseTask(s string) (Task, error) {
	t := Task(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return "", nil
	}
	for _, known := range Tasks {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown task %q", ErrInvalidFilter, s)
}

// SizeBucket groups models by parameter count.
type SizeBucket string

const (
	SizeSmall  SizeBucket = "small"  // < 1B
	SizeMedium SizeBucket = "medium" // 1B to 10B
	SizeLarge  SizeBucket = "large"  // >= 10B
)

// ParseSizeBucket parses a size bucket. The empty string means "no filter".
func ParseSizeBucket(s string) (SizeBucket, error) {
	b := SizeBucket(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case "", SizeSmall, SizeMedium, SizeLarge:
		return b, nil
	default:
		return "", fmt.Errorf("%w: unknown size %q", ErrInvalidFilter, s)
	}
}

// SearchFilters narrows a result set. The zero value filters nothing.
type SearchFilters struct {
	Task         Task
	Size         SizeBucket
	MinDownloads int64
	MinLikes     int64
}

// CatalogModel is one entry of the static model catalog.
type CatalogModel struct {
	ID             string              `json:"id"`
	Name           string              `json:"name,omitempty"`
	Tasks          StringList          `json:"task,omitempty"`
	Params         ParamCount          `json:"params"`
	License        string              `json:"license,omitempty"`
	Framework      StringList          `json:"framework,omitempty"`
	URL            string              `json:"url,omitempty"`
	QueriesByLevel map[string][]string `json:"queries_by_level,omitempty"`
}

// PrimaryTask returns the first task tag, or "".
func (m CatalogModel) PrimaryTask() string {
	if len(m.Tasks) == 0 {
		return ""
	}
	return m.Tasks[0]
}

// Link returns the model's url, falling back to its hub page.
func (m CatalogModel) Link() string {
	if m.URL != "" {
		return m.URL
	}
	return HubURL(m.ID)
}

// EmbeddingRecord is one embedded phrase for a catalog model.
// A model may have many records.
type EmbeddingRecord struct {
	ModelID   string    `json:"model_id"`
	Level     string    `json:"level,omitempty"`
	Query     string    `json:"query,omitempty"`
	Embedding []float32 `json:"embedding"`
}

// Phrase returns the text that produced the embedding.
func (r EmbeddingRecord) Phrase() string {
	if r.Query != "" {
		return r.Query
	}
	return r.Level
}

// Snapshot is a loaded catalog and embedding table. It is shared by every
// query and must not be mutated after construction.
type Snapshot struct {
	Catalog map[string]CatalogModel
	Order   []string // catalog ids in artifact order
	Records []EmbeddingRecord
}

// NewSnapshot indexes models by id. Later duplicates replace earlier ones
// but keep the first position in Order.
func NewSnapshot(models []CatalogModel, records []EmbeddingRecord) *Snapshot {
	s := &Snapshot{
		Catalog: make(map[string]CatalogModel, len(models)),
		Order:   make([]string, 0, len(models)),
		Records: records,
	}
	for _, m := range models {
		if _, seen := s.Catalog[m.ID]; !seen {
			s.Order = append(s.Order, m.ID)
		}
		s.Catalog[m.ID] = m
	}
	return s
}

// Model looks up a catalog entry.
func (s *Snapshot) Model(id string) (CatalogModel, bool) {
	if s == nil {
		return CatalogModel{}, false
	}
	m, ok := s.Catalog[id]
	return m, ok
}

// ModelResult is one row of search output, identical in shape for both
// retrieval strategies.
type ModelResult struct {
	ID           string   `json:"id"`
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Task         string   `json:"task,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Params       *float64 `json:"params,omitempty"`
	Framework    string   `json:"framework,omitempty"`
	Downloads    *int64   `json:"downloads,omitempty"`
	Likes        *int64   `json:"likes,omitempty"`
	License      string   `json:"license,omitempty"`
	URL          string   `json:"url"`
	Similarity   *float32 `json:"similarity,omitempty"`
	Provider     Provider `json:"provider,omitempty"`
	MatchedQuery string   `json:"matchedQuery,omitempty"`
}

// NeedsEnrichment reports whether hub stats are missing.
func (r *ModelResult) NeedsEnrichment() bool {
	return r.Downloads == nil || r.Likes == nil || r.License == ""
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
