package interfaces

import (
	"context"

	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
)

// SessionRepository defines the interface for session persistence
type SessionRepository interface {
	// Put saves a session (upsert)
	Put(ctx context.Context, session *model.Session) error

	// Get retrieves a session by ID. Returns nil without error when the
	// session does not exist.
	Get(ctx context.Context, id types.SessionID) (*model.Session, error)

	// List retrieves sessions ordered by UpdatedAt descending
	List(ctx context.Context, limit int) ([]*model.Session, error)
}
