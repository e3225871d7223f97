package semantic

import (
	"strings"

	"github.com/poiesic/modelscout/core"
)

// Row is one result of the vector-search backend's /semantic_search call.
//
// Backends disagree on a few fields: tasks arrive as a list or only as the
// comma-joined tasks_str, and params as "0.3b" or as a number. Row absorbs
// those variants so nothing past ToResult sees them.
type Row struct {
	ModelID   string          `json:"model_id"`
	Name      string          `json:"name"`
	Tasks     core.StringList `json:"tasks"`
	TasksStr  string          `json:"tasks_str,omitempty"`
	Params    core.ParamCount `json:"params"`
	License   string          `json:"license"`
	URL       string          `json:"url"`
	Score     float32         `json:"score"`
	Via       string          `json:"via"`
	Downloads *int64          `json:"downloads,omitempty"`
	Likes     *int64          `json:"likes,omitempty"`
}

// ToResult converts the row into a semantic search result.
func (r Row) ToResult() core.ModelResult {
	tasks := []string(r.Tasks)
	if len(tasks) == 0 {
		tasks = core.SplitList(r.TasksStr)
	}

	res := core.ModelResult{
		ID:           r.ModelID,
		Name:         r.Name,
		Description:  r.Name,
		Tags:         tasks,
		Params:       r.Params.Ptr(),
		Downloads:    r.Downloads,
		Likes:        r.Likes,
		License:      r.License,
		URL:          r.URL,
		Similarity:   core.Ptr(r.Score),
		Provider:     core.ProviderSemantic,
		MatchedQuery: r.Via,
	}
	if len(tasks) > 0 {
		res.Task = tasks[0]
	}
	if res.URL == "" {
		res.URL = core.HubURL(r.ModelID)
	}
	return res
}

// RowFromResult is the inverse of ToResult, used when serving results.
func RowFromResult(m core.ModelResult) Row {
	row := Row{
		ModelID:   m.ID,
		Name:      m.Name,
		Tasks:     m.Tags,
		TasksStr:  strings.Join(m.Tags, ", "),
		License:   m.License,
		URL:       m.URL,
		Via:       m.MatchedQuery,
		Downloads: m.Downloads,
		Likes:     m.Likes,
	}
	if m.Params != nil {
		row.Params = core.Params(*m.Params)
	}
	if m.Similarity != nil {
		row.Score = *m.Similarity
	}
	return row
}
