package hub

import (
	"strings"

	"github.com/poiesic/modelscout/core"
)

// hubModel is the index's model record. Only the fields search results
// use are decoded.
type hubModel struct {
	ID          string       `json:"id"`
	ModelID     string       `json:"modelId"`
	Downloads   *int64       `json:"downloads"`
	Likes       *int64       `json:"likes"`
	LibraryName string       `json:"library_name"`
	Tags        []string     `json:"tags"`
	PipelineTag string       `json:"pipeline_tag"`
	Safetensors *safetensors `json:"safetensors"`
	CardData    *cardData    `json:"cardData"`
}

type safetensors struct {
	Total      *float64           `json:"total"`
	Parameters map[string]float64 `json:"parameters"`
}

type cardData struct {
	// license is a string or a list of strings in model cards
	License     core.StringList `json:"license"`
	Description string          `json:"description"`
}

func (m hubModel) id() string {
	if m.ID != "" {
		return m.ID
	}
	return m.ModelID
}

// params prefers the reported total and falls back to the largest
// per-dtype count.
func (m hubModel) params() *float64 {
	if m.Safetensors == nil {
		return nil
	}
	if m.Safetensors.Total != nil {
		return core.Ptr(*m.Safetensors.Total)
	}
	var best *float64
	for _, v := range m.Safetensors.Parameters {
		if best == nil || v > *best {
			best = core.Ptr(v)
		}
	}
	return best
}

// license prefers the model card and falls back to a "license:" tag.
func (m hubModel) license() string {
	if m.CardData != nil && len(m.CardData.License) > 0 && m.CardData.License[0] != "" {
		return m.CardData.License[0]
	}
	for _, tag := range m.Tags {
		if l, ok := strings.CutPrefix(tag, "license:"); ok {
			return l
		}
	}
	return ""
}

func (m hubModel) toResult() core.ModelResult {
	id := m.id()
	res := core.ModelResult{
		ID:        id,
		Name:      id,
		Task:      m.PipelineTag,
		Tags:      m.Tags,
		Params:    m.params(),
		Framework: m.LibraryName,
		Downloads: m.Downloads,
		Likes:     m.Likes,
		License:   m.license(),
		URL:       core.HubURL(id),
		Provider:  core.ProviderKeyword,
	}
	if m.CardData != nil {
		res.Description = m.CardData.Description
	}
	return res
}
