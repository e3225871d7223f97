package indexer

import (
	"strings"

	"github.com/poiesic/modelscout/core"
)

// Levels lists the audience levels in the order rows are emitted.
var Levels = []string{"expert", "junior", "beginner"}

// Row is one query to embed.
type Row struct {
	ModelID string
	Level   string
	Query   string
	// Text is what gets embedded. It equals Query unless metadata context
	// is enabled.
	Text string
}

// Flatten expands every model's queries_by_level into rows, model by model,
// levels in Levels order. Blank queries and unknown levels are skipped.
func Flatten(models []core.CatalogModel) []Row {
	var rows []Row
	for _, m := range models {
		for _, level := range Levels {
			for _, q := range m.QueriesByLevel[level] {
				if strings.TrimSpace(q) == "" {
					continue
				}
				rows = append(rows, Row{ModelID: m.ID, Level: level, Query: q, Text: q})
			}
		}
	}
	return rows
}

// metadataText is "name tasks params license framework" with blanks dropped.
func metadataText(m core.CatalogModel) string {
	parts := []string{
		m.Name,
		strings.Join(m.Tasks, " "),
		m.Params.String(),
		m.License,
		strings.Join(m.Framework, " "),
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// withMetadata appends each model's metadata to its rows' embedded text.
func withMetadata(rows []Row, models []core.CatalogModel) []Row {
	meta := make(map[string]string, len(models))
	for _, m := range models {
		meta[m.ID] = metadataText(m)
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		if text := meta[r.ModelID]; text != "" {
			r.Text = r.Query + " | " + text
		}
		out[i] = r
	}
	return out
}
