package generator

import (
	"context"
	"strings"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/juris-lab/themis/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Service produces text through a gollem LLM client. Calls walk an
// ordered list of strategies, from the richest session configuration to
// a bare prompt, and stop at the first one that yields output. Provider
// quirks around unsupported options degrade instead of failing the call.
type Service struct {
	llmClient  gollem.LLMClient
	strategies []strategy
}

var _ interfaces.Generator = &Service{}

type strategy struct {
	name  string
	build func(req interfaces.GenerateRequest) (opts []gollem.SessionOption, prompt string)
}

// New creates a generator service. The LLM client is mandatory; missing
// configuration is fatal here, at construction time, never mid-call.
func New(llmClient gollem.LLMClient) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.Wrap(types.ErrConfigurationMissing, "LLM client is required")
	}

	s := &Service{llmClient: llmClient}
	s.strategies = []strategy{
		{
			name: "system_prompt",
			build: func(req interfaces.GenerateRequest) ([]gollem.SessionOption, string) {
				if req.System == "" {
					return nil, req.Prompt
				}
				return []gollem.SessionOption{gollem.WithSessionSystemPrompt(req.System)}, req.Prompt
			},
		},
		{
			name: "inline_system",
			build: func(req interfaces.GenerateRequest) ([]gollem.SessionOption, string) {
				if req.System == "" {
					return nil, req.Prompt
				}
				return nil, req.System + "\n\n" + req.Prompt
			},
		},
		{
			name: "bare",
			build: func(req interfaces.GenerateRequest) ([]gollem.SessionOption, string) {
				return nil, req.Prompt
			},
		},
	}
	return s, nil
}

// Generate runs the strategies in order and returns the first non-empty
// output. All strategies failing surfaces the last error; all succeeding
// with empty output surfaces ErrGenerationEmpty.
func (s *Service) Generate(ctx context.Context, req interfaces.GenerateRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", goerr.New("prompt is required")
	}

	var lastErr error
	for _, st := range s.strategies {
		opts, prompt := st.build(req)

		session, err := s.llmClient.NewSession(ctx, opts...)
		if err != nil {
			lastErr = goerr.Wrap(err, "failed to create LLM session", goerr.V("strategy", st.name))
			continue
		}

		resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
		if err != nil {
			lastErr = goerr.Wrap(err, "failed to generate content", goerr.V("strategy", st.name))
			logging.From(ctx).Warn("generation strategy failed, trying next",
				"strategy", st.name, "error", err.Error())
			continue
		}

		text := ""
		if len(resp.Texts) > 0 {
			text = strings.TrimSpace(strings.Join(resp.Texts, "\n"))
		}
		if text != "" {
			return text, nil
		}
		lastErr = goerr.Wrap(types.ErrGenerationEmpty, "strategy produced empty output",
			goerr.V("strategy", st.name))
	}

	return "", lastErr
}
