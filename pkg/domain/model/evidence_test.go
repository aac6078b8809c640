package model_test

import (
	"testing"

	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestNormalizeKey(t *testing.T) {
	t.Run("collapses case and whitespace", func(t *testing.T) {
		a := model.NormalizeKey("Rescisão   Indireta\ndo contrato")
		b := model.NormalizeKey("rescisão indireta do contrato")
		gt.Value(t, a).Equal(b)
	})

	t.Run("truncates to prefix", func(t *testing.T) {
		long := ""
		for i := 0; i < 40; i++ {
			long += "palavra "
		}
		key := model.NormalizeKey(long)
		gt.Number(t, len(key)).LessOrEqual(120)
	})

	t.Run("different content yields different keys", func(t *testing.T) {
		a := model.NormalizeKey("dano moral por negativação indevida")
		b := model.NormalizeKey("rescisão indireta por atraso salarial")
		gt.Value(t, a).NotEqual(b)
	})
}

func TestEvidenceDocID(t *testing.T) {
	t.Run("prefers doc_id metadata", func(t *testing.T) {
		ev := model.Evidence{
			Text:     "trecho",
			Source:   "rag:manual.pdf",
			Metadata: map[string]any{"doc_id": "manual.pdf"},
		}
		gt.Value(t, ev.DocID()).Equal("manual.pdf")
	})

	t.Run("falls back to source", func(t *testing.T) {
		ev := model.Evidence{Text: "trecho", Source: "web:stj.jus.br"}
		gt.Value(t, ev.DocID()).Equal("web:stj.jus.br")
	})
}

func TestCoverage(t *testing.T) {
	results := func(n int) []model.FusedResult {
		out := make([]model.FusedResult, n)
		return out
	}

	t.Run("bounded by one", func(t *testing.T) {
		gt.Number(t, model.Coverage(results(10), 6)).Equal(1.0)
	})

	t.Run("monotonic in result count", func(t *testing.T) {
		prev := 0.0
		for n := 0; n <= 6; n++ {
			c := model.Coverage(results(n), 6)
			gt.Number(t, c).GreaterOrEqual(prev)
			prev = c
		}
	})

	t.Run("empty set is zero", func(t *testing.T) {
		gt.Number(t, model.Coverage(nil, 6)).Equal(0.0)
	})
}
