package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/juris-lab/themis/pkg/repository/memory"
	"github.com/juris-lab/themis/pkg/service/guard"
	"github.com/juris-lab/themis/pkg/service/ontology"
	"github.com/juris-lab/themis/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestHandleMessageGreetingSkipsRetrieval(t *testing.T) {
	repo := memory.New()
	src := &fakeSource{name: "vector"}
	gen := &scriptGen{}
	uc := usecase.New(repo,
		usecase.WithSources(src),
		usecase.WithGenerator(gen))

	reply, err := uc.HandleMessage(context.Background(), usecase.IncomingMessage{
		Channel: "api",
		Text:    "oi",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, reply.Intent).Equal(types.IntentGreeting)
	gt.Value(t, strings.HasSuffix(reply.Text, "?")).Equal(true)
	gt.Number(t, src.callCount()).Equal(0)
	gt.Number(t, gen.calls).Equal(0)

	msgs, err := repo.Message().List(context.Background(), reply.SessionID, 10)
	gt.NoError(t, err).Required()
	gt.Array(t, msgs).Length(2)
	gt.Value(t, msgs[0].Role).Equal(types.RoleUser)
	gt.Value(t, msgs[1].Role).Equal(types.RoleAssistant)
}

func TestHandleMessageGroundedFlow(t *testing.T) {
	repo := memory.New()
	src := &fakeSource{name: "vector", fn: func(query string, k int) []model.Evidence {
		return []model.Evidence{
			ev("A purgação da mora afasta o despejo por falta de pagamento do aluguel.", "kb:lei-inquilinato", "lei-inquilinato"),
		}
	}}
	gen := &scriptGen{fn: func(call int, req interfaces.GenerateRequest) (string, error) {
		return "Diagnóstico: cabe purgação da mora para afastar o despejo [S1].", nil
	}}
	tagger, err := ontology.New()
	gt.NoError(t, err).Required()

	uc := usecase.New(repo,
		usecase.WithSources(src),
		usecase.WithGenerator(gen),
		usecase.WithGuard(guard.New()),
		usecase.WithTagger(tagger))

	reply, err := uc.HandleMessage(context.Background(), usecase.IncomingMessage{
		Channel: "api",
		Text:    "recebi uma ação de despejo por aluguel atrasado, o que faço?",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, reply.Intent).Equal(types.IntentGrounded)
	gt.Value(t, reply.Topic).Equal(types.TopicImobiliario)
	gt.Value(t, strings.Contains(reply.Text, "[S1]")).Equal(true)
	gt.Number(t, reply.Coverage).Greater(0.0)
	gt.Array(t, reply.Sources).Length(1)
	gt.Value(t, reply.Sources[0].DocID).Equal("lei-inquilinato")

	// thin evidence carries the preliminary-advice note
	gt.Value(t, strings.Contains(reply.Text, "orientação é preliminar")).Equal(true)
}

func TestHandleMessageFallbackCarriesLowCoverageNote(t *testing.T) {
	// no sources and no generator: the reply is a template built on zero
	// evidence, which still warrants the preliminary-advice note
	uc := usecase.New(memory.New())

	reply, err := uc.HandleMessage(context.Background(), usecase.IncomingMessage{
		Channel: "api",
		Text:    "recebi uma ação de despejo por aluguel atrasado, o que faço?",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, reply.Intent).Equal(types.IntentFallback)
	gt.Number(t, reply.Coverage).Equal(0.0)
	gt.Value(t, strings.Contains(reply.Text, "orientação é preliminar")).Equal(true)
}

func TestHandleMessageExtractsProcessNumbers(t *testing.T) {
	repo := memory.New()
	gen := &scriptGen{fn: func(call int, req interfaces.GenerateRequest) (string, error) {
		return "", nil
	}}
	uc := usecase.New(repo, usecase.WithGenerator(gen))

	reply, err := uc.HandleMessage(context.Background(), usecase.IncomingMessage{
		Channel: "api",
		Text:    "quero saber do processo 0001234-56.2023.8.26.0100 sobre meu aluguel",
	})
	gt.NoError(t, err).Required()
	gt.Array(t, reply.Entities).Length(1).Required()
	gt.Value(t, reply.Entities[0]).Equal("00012345620238260100")
}

func TestHandleMessageRewriteOnDemand(t *testing.T) {
	repo := memory.New()
	src := &fakeSource{name: "vector", fn: func(query string, k int) []model.Evidence {
		if query != "consulta reescrita sobre despejo" {
			return nil
		}
		return []model.Evidence{
			ev("O despejo liminar independe de audiência quando não há garantia.", "kb:lei", "lei"),
		}
	}}
	gen := &scriptGen{fn: func(call int, req interfaces.GenerateRequest) (string, error) {
		if strings.Contains(req.Prompt, "consultas de busca") {
			return "consulta reescrita sobre despejo\noutra consulta qualquer", nil
		}
		return "Diagnóstico: despejo liminar possível [S1].", nil
	}}

	uc := usecase.New(repo,
		usecase.WithSources(src),
		usecase.WithGenerator(gen))

	reply, err := uc.HandleMessage(context.Background(), usecase.IncomingMessage{
		Channel: "api",
		Text:    "posso ser despejado sem audiência do contrato sem garantia?",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, reply.Intent).Equal(types.IntentGrounded)
	gt.Array(t, reply.Sources).Length(1)
}

func TestHandleMessageReusesSession(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithGenerator(&scriptGen{}))

	first, err := uc.HandleMessage(context.Background(), usecase.IncomingMessage{
		Channel: "api",
		Text:    "oi",
	})
	gt.NoError(t, err).Required()

	second, err := uc.HandleMessage(context.Background(), usecase.IncomingMessage{
		SessionID: first.SessionID,
		Channel:   "api",
		Text:      "bom dia",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, second.SessionID).Equal(first.SessionID)

	msgs, err := repo.Message().List(context.Background(), first.SessionID, 10)
	gt.NoError(t, err).Required()
	gt.Array(t, msgs).Length(4)
}

func TestHandleMessageEmptyText(t *testing.T) {
	uc := usecase.New(memory.New())
	_, err := uc.HandleMessage(context.Background(), usecase.IncomingMessage{Text: "   "})
	gt.Value(t, err).NotNil()
}
