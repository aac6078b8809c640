package interfaces

import (
	"context"

	"github.com/juris-lab/themis/pkg/domain/model"
)

// Source is a single evidence source queried during retrieval.
// Implementations return at most k items ranked best-first. A failing
// source returns an error; the fusion layer treats it as empty.
type Source interface {
	// Name identifies the source in logs and audit records
	Name() string

	// Retrieve returns evidence for the query, best match first
	Retrieve(ctx context.Context, query string, k int) ([]model.Evidence, error)
}
