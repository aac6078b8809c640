package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/juris-lab/themis/pkg/repository/firestore"
	"github.com/juris-lab/themis/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func newMemoryRepo(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newFirestoreRepo(t *testing.T) interfaces.Repository {
	t.Helper()
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID is not set")
	}
	repo, err := firestore.New(context.Background(), projectID, os.Getenv("TEST_FIRESTORE_DATABASE_ID"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func runSessionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()
	ctx := context.Background()

	t.Run("Put and Get", func(t *testing.T) {
		repo := newRepo(t)
		now := time.Now().UTC().Truncate(time.Millisecond)
		session := model.NewSession("http", now)

		gt.NoError(t, repo.Session().Put(ctx, session)).Required()

		got, err := repo.Session().Get(ctx, session.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got).NotNil()
		gt.Value(t, got.ID).Equal(session.ID)
		gt.Value(t, got.Channel).Equal("http")
		gt.Value(t, got.Phase).Equal(types.PhaseTriage)
	})

	t.Run("Get missing session returns nil", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.Session().Get(ctx, types.NewSessionID())
		gt.NoError(t, err).Required()
		gt.Value(t, got).Nil()
	})

	t.Run("Put is an upsert", func(t *testing.T) {
		repo := newRepo(t)
		now := time.Now().UTC().Truncate(time.Millisecond)
		session := model.NewSession("http", now)
		gt.NoError(t, repo.Session().Put(ctx, session)).Required()

		session.Phase = types.PhaseAnalysis
		session.UpdatedAt = now.Add(time.Second)
		gt.NoError(t, repo.Session().Put(ctx, session)).Required()

		got, err := repo.Session().Get(ctx, session.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Phase).Equal(types.PhaseAnalysis)
	})

	t.Run("List is newest first", func(t *testing.T) {
		repo := newRepo(t)
		now := time.Now().UTC().Truncate(time.Millisecond)

		older := model.NewSession("http", now.Add(-time.Minute))
		newer := model.NewSession("http", now)
		gt.NoError(t, repo.Session().Put(ctx, older)).Required()
		gt.NoError(t, repo.Session().Put(ctx, newer)).Required()

		sessions, err := repo.Session().List(ctx, 10)
		gt.NoError(t, err).Required()
		gt.Number(t, len(sessions)).GreaterOrEqual(2)
		gt.Value(t, sessions[0].UpdatedAt.Before(sessions[1].UpdatedAt)).Equal(false)
	})
}

func TestMemorySessionRepository(t *testing.T) {
	runSessionRepositoryTest(t, newMemoryRepo)
}

func TestFirestoreSessionRepository(t *testing.T) {
	runSessionRepositoryTest(t, newFirestoreRepo)
}
