package interfaces

import "context"

// GenerateRequest carries one text generation call
type GenerateRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Generator produces free-form text from a prompt
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
