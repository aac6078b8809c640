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
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const sessionsCollection = "sessions"

type sessionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.SessionRepository = &sessionRepository{}

func newSessionRepository(client *firestore.Client) *sessionRepository {
	return &sessionRepository{client: client}
}

type sessionDoc struct {
	ID        string    `firestore:"id"`
	Channel   string    `firestore:"channel"`
	Phase     string    `firestore:"phase"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (r *sessionRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + sessionsCollection)
}

func (r *sessionRepository) Put(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}

	doc := &sessionDoc{
		ID:        session.ID.String(),
		Channel:   session.Channel,
		Phase:     session.Phase.String(),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}

	ref := r.collection().Doc(session.ID.String())
	if _, err := ref.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to save session", goerr.V("session_id", session.ID))
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id types.SessionID) (*model.Session, error) {
	snap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("session_id", id))
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("session_id", id))
	}

	return &model.Session{
		ID:        types.SessionID(doc.ID),
		Channel:   doc.Channel,
		Phase:     types.SessionPhase(doc.Phase).Normalize(),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (r *sessionRepository) List(ctx context.Context, limit int) ([]*model.Session, error) {
	if limit <= 0 {
		limit = 100
	}

	iter := r.collection().
		OrderBy("updated_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var sessions []*model.Session
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sessions")
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("doc_id", snap.Ref.ID))
		}
		sessions = append(sessions, &model.Session{
			ID:        types.SessionID(doc.ID),
			Channel:   doc.Channel,
			Phase:     types.SessionPhase(doc.Phase).Normalize(),
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}

	return sessions, nil
}
