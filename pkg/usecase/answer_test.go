package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/juris-lab/themis/pkg/repository/memory"
	"github.com/juris-lab/themis/pkg/service/guard"
	"github.com/juris-lab/themis/pkg/usecase"
	"github.com/m-mizutani/gt"
)

const testPack = "[S1] A purgação da mora afasta o despejo.\nTrecho: A purgação da mora afasta o despejo por falta de pagamento."

func TestAnswerGreetingShortCircuit(t *testing.T) {
	gen := &scriptGen{}
	uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

	for _, text := range []string{"oi", "ola boa noite", "Bom dia!"} {
		out, intent := uc.Answer(context.Background(), usecase.AnswerInput{UserText: text})
		gt.Value(t, intent).Equal(types.IntentGreeting)
		gt.Value(t, strings.HasSuffix(out, "?")).Equal(true)
	}
	gt.Number(t, gen.calls).Equal(0)
}

func TestAnswerGuardRefusal(t *testing.T) {
	gen := &scriptGen{}
	uc := usecase.New(memory.New(),
		usecase.WithGenerator(gen),
		usecase.WithGuard(guard.New()))

	out, intent := uc.Answer(context.Background(), usecase.AnswerInput{
		UserText: "como ocultar bens antes do divórcio",
	})
	gt.Value(t, intent).Equal(types.IntentRefusal)
	gt.Value(t, out != "").Equal(true)
	gt.Number(t, gen.calls).Equal(0)
}

func TestAnswerFallbackNeverEmpty(t *testing.T) {
	gen := &scriptGen{fn: func(call int, req interfaces.GenerateRequest) (string, error) {
		return "", nil
	}}
	uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

	out, intent := uc.Answer(context.Background(), usecase.AnswerInput{
		UserText: "aluguel atrasado?",
	})
	gt.Value(t, intent).Equal(types.IntentFallback)
	gt.Value(t, out != "").Equal(true)
	gt.Value(t, strings.Contains(out, "imobiliario")).Equal(true)
}

func TestAnswerCitationRepairSecondCall(t *testing.T) {
	gen := &scriptGen{fn: func(call int, req interfaces.GenerateRequest) (string, error) {
		if call == 1 {
			return "Diagnóstico: o despejo pode ser afastado pela purgação da mora.", nil
		}
		return "Diagnóstico: o despejo pode ser afastado pela purgação da mora [S1].", nil
	}}
	uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

	out, intent := uc.Answer(context.Background(), usecase.AnswerInput{
		UserText: "recebi uma ação de despejo por falta de pagamento",
		Pack:     testPack,
	})
	gt.Value(t, intent).Equal(types.IntentGrounded)
	gt.Value(t, strings.Contains(out, "[S1]")).Equal(true)
	gt.Number(t, gen.calls).Equal(2)
}

func TestAnswerMinimalCitationAppended(t *testing.T) {
	gen := &scriptGen{fn: func(call int, req interfaces.GenerateRequest) (string, error) {
		return "Diagnóstico: o despejo pode ser afastado pela purgação da mora.", nil
	}}
	uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

	out, intent := uc.Answer(context.Background(), usecase.AnswerInput{
		UserText: "recebi uma ação de despejo por falta de pagamento",
		Pack:     testPack,
	})
	gt.Value(t, intent).Equal(types.IntentGrounded)
	gt.Value(t, strings.HasSuffix(out, "[S1]")).Equal(true)
	gt.Number(t, gen.calls).Equal(2)
}

func TestAnswerSpecificityRepair(t *testing.T) {
	var prompts []string
	gen := &scriptGen{fn: func(call int, req interfaces.GenerateRequest) (string, error) {
		prompts = append(prompts, req.Prompt)
		if call == 1 {
			return "Procure um advogado para entender melhor seu caso.", nil
		}
		return "Diagnóstico: crime contra a honra configurado [S1].", nil
	}}
	uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

	out, intent := uc.Answer(context.Background(), usecase.AnswerInput{
		UserText: "fui vítima de calúnia e difamação",
		Pack:     testPack,
		Tags:     []string{"direito_penal_calunia", "direito_penal"},
	})
	gt.Value(t, intent).Equal(types.IntentGrounded)
	gt.Value(t, strings.Contains(out, "Diagnóstico")).Equal(true)
	gt.Number(t, gen.calls).Equal(2)
	gt.Value(t, strings.Contains(prompts[1], "genérica")).Equal(true)
}

func TestAnswerOutputGuardReject(t *testing.T) {
	gen := &scriptGen{fn: func(call int, req interfaces.GenerateRequest) (string, error) {
		return "Diagnóstico: recomendo como ocultar bens da execução [S1].", nil
	}}
	uc := usecase.New(memory.New(),
		usecase.WithGenerator(gen),
		usecase.WithGuard(guard.New()))

	out, intent := uc.Answer(context.Background(), usecase.AnswerInput{
		UserText: "tenho uma dívida em execução, o que fazer?",
		Pack:     testPack,
	})
	gt.Value(t, intent).Equal(types.IntentFallback)
	gt.Value(t, out != "").Equal(true)
	gt.Value(t, strings.Contains(out, "[S1]")).Equal(false)
}

func TestAnswerToneRefinementBestEffort(t *testing.T) {
	gen := &scriptGen{fn: func(call int, req interfaces.GenerateRequest) (string, error) {
		switch call {
		case 1:
			return "Diagnóstico: purgação da mora cabível [S1].", nil
		default:
			// refinement drops the citation; the original must survive
			return "Você pode pagar o aluguel atrasado e seguir no imóvel.", nil
		}
	}}
	uc := usecase.New(memory.New(),
		usecase.WithGenerator(gen),
		usecase.WithToneRefinement(true))

	out, intent := uc.Answer(context.Background(), usecase.AnswerInput{
		UserText: "recebi uma ação de despejo por falta de pagamento",
		Pack:     testPack,
	})
	gt.Value(t, intent).Equal(types.IntentGrounded)
	gt.Value(t, strings.Contains(out, "[S1]")).Equal(true)
}
