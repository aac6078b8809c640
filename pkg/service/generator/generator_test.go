package generator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/juris-lab/themis/pkg/service/generator"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/gollem"
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
	return &gollem.Response{Texts: []string{"resposta padrão"}}, nil
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

func TestNewRequiresClient(t *testing.T) {
	_, err := generator.New(nil)
	gt.Value(t, err).NotNil()
	gt.Value(t, errors.Is(err, types.ErrConfigurationMissing)).Equal(true)
}

func TestGenerateFirstStrategyWins(t *testing.T) {
	calls := 0
	client := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			calls++
			return &mockLLMSession{}, nil
		},
	}

	svc, err := generator.New(client)
	gt.NoError(t, err).Required()

	out, err := svc.Generate(context.Background(), interfaces.GenerateRequest{
		System: "você é um assistente jurídico",
		Prompt: "qual o prazo prescricional?",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, out).Equal("resposta padrão")
	gt.Number(t, calls).Equal(1)
}

func TestGenerateFallsBackOnSessionFailure(t *testing.T) {
	calls := 0
	client := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			calls++
			// First strategy carries the system prompt option and is rejected
			if len(options) > 0 {
				return nil, errors.New("system prompt not supported")
			}
			return &mockLLMSession{}, nil
		},
	}

	svc, err := generator.New(client)
	gt.NoError(t, err).Required()

	out, err := svc.Generate(context.Background(), interfaces.GenerateRequest{
		System: "instruções",
		Prompt: "pergunta",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, out).Equal("resposta padrão")
	gt.Number(t, calls).Equal(2)
}

func TestGenerateAllEmptyIsError(t *testing.T) {
	client := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{"   "}}, nil
				},
			}, nil
		},
	}

	svc, err := generator.New(client)
	gt.NoError(t, err).Required()

	_, err = svc.Generate(context.Background(), interfaces.GenerateRequest{Prompt: "pergunta"})
	gt.Value(t, err).NotNil()
	gt.Value(t, errors.Is(err, types.ErrGenerationEmpty)).Equal(true)
}

func TestGenerateRequiresPrompt(t *testing.T) {
	svc, err := generator.New(&mockLLMClient{})
	gt.NoError(t, err).Required()

	_, err = svc.Generate(context.Background(), interfaces.GenerateRequest{})
	gt.Value(t, err).NotNil()
}
