package usecase_test

import (
	"context"
	"sync/atomic"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/model"
)

// fakeSource is a race-safe scripted retrieval source
type fakeSource struct {
	name  string
	calls int32
	fn    func(query string, k int) []model.Evidence
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Retrieve(ctx context.Context, query string, k int) ([]model.Evidence, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.fn == nil {
		return nil, nil
	}
	return s.fn(query, k), nil
}

func (s *fakeSource) callCount() int {
	return int(atomic.LoadInt32(&s.calls))
}

// scriptGen replays a per-call generation script
type scriptGen struct {
	calls int
	fn    func(call int, req interfaces.GenerateRequest) (string, error)
}

func (g *scriptGen) Generate(ctx context.Context, req interfaces.GenerateRequest) (string, error) {
	g.calls++
	if g.fn == nil {
		return "", nil
	}
	return g.fn(g.calls, req)
}

func ev(text, source, docID string) model.Evidence {
	return model.Evidence{
		Text:     text,
		Source:   source,
		Metadata: map[string]any{"doc_id": docID},
	}
}
