// Package filter applies task, size and popularity predicates to search
// results. The same predicates run after both the semantic and the keyword
// retrieval paths.
//
// All predicates are independent and combined with AND. Missing data never
// excludes a result: an unknown parameter count passes every size bucket and
// missing download or like counts are treated as zero.
package filter
