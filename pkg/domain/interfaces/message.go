package interfaces

import (
	"context"

	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
)

// MessageRepository defines the interface for session-scoped message persistence
type MessageRepository interface {
	// Put saves a message under its session (upsert)
	Put(ctx context.Context, msg *model.Message) error

	// List retrieves messages for a session in ascending creation order
	List(ctx context.Context, sessionID types.SessionID, limit int) ([]*model.Message, error)
}
