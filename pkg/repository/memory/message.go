package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type messageRepository struct {
	mu       sync.RWMutex
	messages map[types.SessionID][]*model.Message
}

var _ interfaces.MessageRepository = &messageRepository{}

func newMessageRepository() *messageRepository {
	return &messageRepository{
		messages: make(map[types.SessionID][]*model.Message),
	}
}

func copyMessage(msg *model.Message) *model.Message {
	copied := *msg
	copied.Entities = append([]string(nil), msg.Entities...)
	copied.Sources = append([]model.SourceRecord(nil), msg.Sources...)
	return &copied
}

func (r *messageRepository) Put(_ context.Context, msg *model.Message) error {
	if msg == nil {
		return goerr.New("message is nil")
	}
	if !msg.SessionID.IsValid() {
		return goerr.New("message session ID is required", goerr.V("message_id", msg.ID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Upsert: remove existing message with same ID
	msgs := r.messages[msg.SessionID]
	for i, m := range msgs {
		if m.ID == msg.ID {
			msgs = append(msgs[:i], msgs[i+1:]...)
			break
		}
	}

	r.messages[msg.SessionID] = append(msgs, copyMessage(msg))
	return nil
}

func (r *messageRepository) List(_ context.Context, sessionID types.SessionID, limit int) ([]*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	msgs := r.messages[sessionID]
	sorted := make([]*model.Message, 0, len(msgs))
	for _, m := range msgs {
		sorted = append(sorted, copyMessage(m))
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	if len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}
	return sorted, nil
}
