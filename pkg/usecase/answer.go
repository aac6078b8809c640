package usecase

import (
	"context"
	_ "embed"
	"regexp"
	"strings"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/juris-lab/themis/pkg/utils/logging"
)

//go:embed prompt/answer_system.md
var answerSystemPrompt string

const greetingReply = "Olá! Sou o assistente jurídico do escritório. " +
	"Para começar, me conte em poucas linhas o que aconteceu e o que você gostaria de resolver?"

const refusalReply = "Não posso ajudar com esse pedido. " +
	"Oriento apenas caminhos dentro da lei; se quiser, me conte o problema que você deseja resolver e eu indico as alternativas lícitas."

var citationRe = regexp.MustCompile(`\[S\d+\]`)

// AnswerInput carries everything the assembler needs for one reply
type AnswerInput struct {
	UserText string
	Pack     string
	Tags     []string
	Topic    types.Topic
}

// Answer drives the generation and repair state machine. It never fails:
// whatever goes wrong inside, the caller receives non-empty text and the
// intent that produced it.
func (uc *UseCases) Answer(ctx context.Context, in AnswerInput) (string, types.Intent) {
	if isGreeting(in.UserText) {
		return greetingReply, types.IntentGreeting
	}

	if uc.guard != nil {
		if verdict := uc.guard.Check(in.UserText); !verdict.Allowed {
			logging.From(ctx).Info("input rejected by guard", "reason", verdict.Reason)
			return refusalReply, types.IntentRefusal
		}
	}

	if strings.TrimSpace(in.Pack) == "" {
		return uc.fallback(ctx, in), types.IntentFallback
	}

	answer := uc.grounded(ctx, in)
	if answer == "" {
		return uc.fallback(ctx, in), types.IntentFallback
	}

	if uc.guard != nil {
		if verdict := uc.guard.Check(answer); !verdict.Allowed {
			logging.From(ctx).Warn("generated answer rejected by guard", "reason", verdict.Reason)
			return uc.fallback(ctx, in), types.IntentFallback
		}
	}

	return uc.refineTone(ctx, answer), types.IntentGrounded
}

// grounded runs the primary generation plus the bounded repair loop:
// at most one specificity re-prompt and one citation re-prompt.
func (uc *UseCases) grounded(ctx context.Context, in AnswerInput) string {
	if uc.generator == nil {
		return ""
	}

	prompt := "Pergunta do cliente:\n" + in.UserText + "\n\nBASE DE EVIDÊNCIAS:\n" + in.Pack

	answer := uc.generate(ctx, prompt)
	if answer == "" {
		return ""
	}

	if isGeneric(answer) && len(in.Tags) > 0 {
		hints := uc.topicHints(in.Tags)
		repair := prompt + "\n\nA resposta anterior ficou genérica. Reescreva de forma específica e orientada a ação, " +
			"tratando diretamente destes pontos: " + strings.Join(hints, "; ") + "."
		if repaired := uc.generate(ctx, repair); repaired != "" {
			answer = repaired
		}
	}

	if !citationRe.MatchString(answer) {
		repair := prompt + "\n\nA resposta anterior não citou a base de evidências. " +
			"Reescreva mantendo o mesmo conteúdo e marcando cada fundamento com o marcador [S#] do trecho que o sustenta."
		if repaired := uc.generate(ctx, repair); repaired != "" {
			answer = repaired
		}
		if !citationRe.MatchString(answer) {
			answer += "\n\n[S1]"
		}
	}

	return answer
}

func (uc *UseCases) generate(ctx context.Context, prompt string) string {
	out, err := uc.generator.Generate(ctx, interfaces.GenerateRequest{
		System: answerSystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		logging.From(ctx).Warn("generation failed", "error", err.Error())
		return ""
	}
	return strings.TrimSpace(out)
}

func (uc *UseCases) topicHints(tags []string) []string {
	if uc.tagger != nil {
		if hints := uc.tagger.Hints(tags); len(hints) > 0 {
			return hints
		}
	}
	hints := make([]string, 0, len(tags))
	for _, t := range tags {
		hints = append(hints, humanizeTag(t))
	}
	return hints
}

// refineTone is the optional plain-language rewrite. Best effort: any
// failure returns the original answer.
func (uc *UseCases) refineTone(ctx context.Context, answer string) string {
	if !uc.refine || uc.generator == nil {
		return answer
	}

	out, err := uc.generator.Generate(ctx, interfaces.GenerateRequest{
		System: "Você é um redator jurídico para clientes leigos.",
		Prompt: "Reescreva o texto a seguir de forma clara, objetiva e organizada, em parágrafos curtos. " +
			"Preserve a estrutura numerada e todos os marcadores [S#] exatamente onde estão.\n\nTEXTO ORIGINAL:\n" + answer,
	})
	if err != nil || strings.TrimSpace(out) == "" {
		logging.From(ctx).Warn("tone refinement skipped", "error", errString(err))
		return answer
	}
	if citationRe.MatchString(answer) && !citationRe.MatchString(out) {
		return answer
	}
	return strings.TrimSpace(out)
}

func errString(err error) string {
	if err == nil {
		return "empty output"
	}
	return err.Error()
}

// isGeneric flags answers missing both the diagnosis header and any
// citation marker
func isGeneric(answer string) bool {
	return !strings.Contains(fold(answer), "diagnostico") && !citationRe.MatchString(answer)
}

// greetingWords is the closed vocabulary of salutations. A message made
// only of these tokens carries no case intent.
var greetingWords = map[string]bool{
	"oi": true, "ola": true, "opa": true, "eai": true, "hey": true, "hello": true,
	"bom": true, "boa": true, "dia": true, "tarde": true, "noite": true,
	"tudo": true, "bem": true, "td": true, "blz": true,
}

func isGreeting(text string) bool {
	tokens := tokenize(text)
	if len(tokens) == 0 || len(tokens) > 4 {
		return false
	}
	for _, t := range tokens {
		if !greetingWords[t] {
			return false
		}
	}
	return true
}
