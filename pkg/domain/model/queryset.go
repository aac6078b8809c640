package model

import "strings"

// MaxQueries caps the size of an expanded query set
const MaxQueries = 12

// QuerySet is an ordered set of search queries. Queries are distinct
// under case- and whitespace-insensitive comparison, and the first
// entry is always the seed the set was built from.
type QuerySet struct {
	queries []string
	seen    map[string]bool
}

// NewQuerySet creates a query set seeded with the given query
func NewQuerySet(seed string) *QuerySet {
	qs := &QuerySet{seen: make(map[string]bool)}
	qs.Add(seed)
	return qs
}

// Add appends a query unless it is empty, a duplicate, or the set is full.
// Returns true if the query was added.
func (qs *QuerySet) Add(query string) bool {
	q := strings.TrimSpace(query)
	if q == "" || len(qs.queries) >= MaxQueries {
		return false
	}
	key := strings.Join(strings.Fields(strings.ToLower(q)), " ")
	if qs.seen[key] {
		return false
	}
	qs.seen[key] = true
	qs.queries = append(qs.queries, q)
	return true
}

// Queries returns the queries in insertion order
func (qs *QuerySet) Queries() []string {
	out := make([]string, len(qs.queries))
	copy(out, qs.queries)
	return out
}

// Head returns at most the first n queries
func (qs *QuerySet) Head(n int) []string {
	if n > len(qs.queries) {
		n = len(qs.queries)
	}
	out := make([]string, n)
	copy(out, qs.queries[:n])
	return out
}

// Len returns the number of queries in the set
func (qs *QuerySet) Len() int {
	return len(qs.queries)
}
