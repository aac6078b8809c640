package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const messagesCollection = "messages"

type messageRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.MessageRepository = &messageRepository{}

func newMessageRepository(client *firestore.Client) *messageRepository {
	return &messageRepository{client: client}
}

type sourceRecordDoc struct {
	Label  string `firestore:"label"`
	Source string `firestore:"source"`
	DocID  string `firestore:"doc_id"`
}

type messageDoc struct {
	ID        string            `firestore:"id"`
	SessionID string            `firestore:"session_id"`
	Role      string            `firestore:"role"`
	Text      string            `firestore:"text"`
	Topic     string            `firestore:"topic"`
	Intent    string            `firestore:"intent"`
	Entities  []string          `firestore:"entities"`
	Coverage  float64           `firestore:"coverage"`
	Sources   []sourceRecordDoc `firestore:"sources"`
	CreatedAt time.Time         `firestore:"created_at"`
}

func (r *messageRepository) collection(sessionID types.SessionID) *firestore.CollectionRef {
	return r.client.
		Collection(r.collectionPrefix+sessionsCollection).Doc(sessionID.String()).
		Collection(messagesCollection)
}

func (r *messageRepository) Put(ctx context.Context, msg *model.Message) error {
	if msg == nil {
		return goerr.New("message is nil")
	}

	sources := make([]sourceRecordDoc, 0, len(msg.Sources))
	for _, s := range msg.Sources {
		sources = append(sources, sourceRecordDoc{
			Label:  s.Label,
			Source: s.Source,
			DocID:  s.DocID,
		})
	}

	doc := &messageDoc{
		ID:        msg.ID.String(),
		SessionID: msg.SessionID.String(),
		Role:      msg.Role.String(),
		Text:      msg.Text,
		Topic:     msg.Topic.String(),
		Intent:    msg.Intent.String(),
		Entities:  msg.Entities,
		Coverage:  msg.Coverage,
		Sources:   sources,
		CreatedAt: msg.CreatedAt,
	}

	ref := r.collection(msg.SessionID).Doc(msg.ID.String())
	if _, err := ref.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to save message",
			goerr.V("session_id", msg.SessionID),
			goerr.V("message_id", msg.ID))
	}
	return nil
}

func (r *messageRepository) List(ctx context.Context, sessionID types.SessionID, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	iter := r.collection(sessionID).
		OrderBy("created_at", firestore.Asc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var messages []*model.Message
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages", goerr.V("session_id", sessionID))
		}

		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message", goerr.V("doc_id", snap.Ref.ID))
		}

		sources := make([]model.SourceRecord, 0, len(doc.Sources))
		for _, s := range doc.Sources {
			sources = append(sources, model.SourceRecord{
				Label:  s.Label,
				Source: s.Source,
				DocID:  s.DocID,
			})
		}

		messages = append(messages, &model.Message{
			ID:        types.MessageID(doc.ID),
			SessionID: types.SessionID(doc.SessionID),
			Role:      types.MessageRole(doc.Role),
			Text:      doc.Text,
			Topic:     types.Topic(doc.Topic),
			Intent:    types.Intent(doc.Intent),
			Entities:  doc.Entities,
			Coverage:  doc.Coverage,
			Sources:   sources,
			CreatedAt: doc.CreatedAt,
		})
	}

	return messages, nil
}
