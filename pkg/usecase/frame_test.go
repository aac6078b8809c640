package usecase_test

import (
	"context"
	"testing"

	"github.com/juris-lab/themis/pkg/repository/memory"
	"github.com/juris-lab/themis/pkg/usecase"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"{}"}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func TestFrameSchemaRequiresCoreFields(t *testing.T) {
	schema := usecase.FrameSchema()

	facts := schema.Properties["facts"]
	gt.Value(t, facts).NotNil().Required()
	gt.Value(t, facts.Required).Equal(true)

	goal := schema.Properties["goal"]
	gt.Value(t, goal).NotNil().Required()
	gt.Value(t, goal.Required).Equal(true)

	parties := schema.Properties["parties"]
	gt.Value(t, parties).NotNil().Required()
	gt.Value(t, parties.Required).Equal(false)
}

func TestExtractFrameParsesStructuredResponse(t *testing.T) {
	client := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{
						`{"facts":"recebeu citação em ação de despejo","goal":"permanecer no imóvel","parties":["locador"],"tags":["despejo"]}`,
					}}, nil
				},
			}, nil
		},
	}

	uc := usecase.New(memory.New(), usecase.WithLLMClient(client))

	frame := uc.ExtractFrame(context.Background(), "fui citado numa ação de despejo e quero ficar no imóvel")
	gt.Value(t, frame.Facts).Equal("recebeu citação em ação de despejo")
	gt.Value(t, frame.Goal).Equal("permanecer no imóvel")
	gt.Array(t, frame.Parties).Length(1)
	gt.Array(t, frame.Tags).Length(1)
}

func TestExtractFrameMalformedJSONYieldsEmptyFrame(t *testing.T) {
	client := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{"não consegui extrair"}}, nil
				},
			}, nil
		},
	}

	uc := usecase.New(memory.New(), usecase.WithLLMClient(client))

	frame := uc.ExtractFrame(context.Background(), "texto qualquer do cliente")
	gt.Value(t, frame.Facts).Equal("")
	gt.Value(t, frame.Goal).Equal("")
	gt.Array(t, frame.Tags).Length(0)
}
