package search

import "strings"

// normalizeQuery trims the query and collapses internal runs of whitespace,
// including newlines pasted from a model card.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
