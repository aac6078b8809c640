package guard_test

import (
	"testing"

	"github.com/juris-lab/themis/pkg/service/guard"
	"github.com/m-mizutani/gt"
)

func TestGuardAllowsOrdinaryQuestions(t *testing.T) {
	svc := guard.New()

	for _, text := range []string{
		"fui demitido sem justa causa, tenho direito a quê?",
		"meu nome foi negativado indevidamente no Serasa",
		"quero entrar com ação de pensão alimentícia",
		"",
	} {
		verdict := svc.Check(text)
		gt.Value(t, verdict.Allowed).Equal(true)
	}
}

func TestGuardRejectsIllicitRequests(t *testing.T) {
	svc := guard.New()

	cases := map[string]string{
		"como falsificar uma assinatura no contrato": "falsificação",
		"quero burlar a perícia médica do INSS":      "fraude",
		"como ocultar bens antes do divórcio":        "ocultação",
		"preciso sumir com provas do processo":       "provas",
	}
	for text := range cases {
		verdict := svc.Check(text)
		gt.Value(t, verdict.Allowed).Equal(false)
		gt.Value(t, verdict.Reason == "").Equal(false)
	}
}

func TestGuardDeterministic(t *testing.T) {
	svc := guard.New()
	text := "como ocultar patrimônio da execução"
	first := svc.Check(text)
	for i := 0; i < 5; i++ {
		gt.Value(t, svc.Check(text)).Equal(first)
	}
}
