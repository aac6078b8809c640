package model

import "strings"

// Evidence is a single retrieved snippet from any source (local index,
// case registry, web search). Metadata is source-specific and optional.
type Evidence struct {
	Text     string
	Source   string
	Metadata map[string]any
}

// DocID returns the document identity used for per-document caps.
// Falls back to the source label when no doc_id metadata is present.
func (e Evidence) DocID() string {
	if e.Metadata != nil {
		if id, ok := e.Metadata["doc_id"].(string); ok && id != "" {
			return id
		}
	}
	return e.Source
}

// Key returns the content identity of the evidence: lowercased,
// whitespace-collapsed prefix of the text. Two pieces of evidence with
// the same key are treated as the same item during fusion.
func (e Evidence) Key() string {
	return NormalizeKey(e.Text)
}

const keyPrefixLen = 120

// NormalizeKey lowercases the text, collapses runs of whitespace into a
// single space, and truncates to a fixed prefix.
func NormalizeKey(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	joined := strings.Join(fields, " ")
	if len(joined) > keyPrefixLen {
		joined = joined[:keyPrefixLen]
	}
	return joined
}

// FusedResult is an evidence item with its accumulated fusion score
type FusedResult struct {
	Evidence Evidence
	Score    float64
}

// Coverage estimates how well the fused set fills the retrieval target k.
// Always within [0, 1].
func Coverage(results []FusedResult, k int) float64 {
	if k <= 0 {
		return 0
	}
	c := float64(len(results)) / float64(k)
	if c > 1 {
		return 1
	}
	return c
}
