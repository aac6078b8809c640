package interfaces

import (
	"context"

	"github.com/juris-lab/themis/pkg/domain/model"
)

// VectorIndex is a local embedding index over chunked documents
type VectorIndex interface {
	// Search returns the k nearest chunks for the query text.
	// An empty topic disables topic filtering.
	Search(ctx context.Context, query string, topic string, k int) ([]model.Evidence, error)

	// Add embeds and stores document chunks
	Add(ctx context.Context, docID, title, topic string, chunks []string) error

	// Close releases the underlying store
	Close() error
}
