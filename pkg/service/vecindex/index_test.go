package vecindex_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/juris-lab/themis/pkg/service/vecindex"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/gollem"
)

// embedClient produces deterministic embeddings so nearest-neighbor
// results are predictable without a real model.
type embedClient struct {
	dim int
}

func (c *embedClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, nil
}

func (c *embedClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	out := make([][]float64, 0, len(input))
	for _, text := range input {
		v := make([]float64, dimension)
		switch {
		case strings.Contains(text, "despejo"):
			v[0] = 1
		case strings.Contains(text, "alimentícia") || strings.Contains(text, "alimentos"):
			v[1] = 1
		default:
			v[2] = 1
		}
		out = append(out, v)
	}
	return out, nil
}

func newTestIndex(t *testing.T) *vecindex.Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := vecindex.New(path, &embedClient{}, vecindex.WithDimension(8))
	if err != nil {
		t.Skipf("sqlite-vec unavailable: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestSearchReturnsNearestChunk(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)

	gt.NoError(t, idx.Add(ctx, "lei-inquilinato", "Lei do Inquilinato", "imobiliario", []string{
		"A ação de despejo por falta de pagamento admite purgação da mora.",
		"O contrato de locação residencial pode ser prorrogado por prazo indeterminado.",
	})).Required()
	gt.NoError(t, idx.Add(ctx, "alimentos", "Pensão alimentícia", "familia", []string{
		"A pensão alimentícia é fixada conforme o binômio necessidade e possibilidade.",
	})).Required()

	results, err := idx.Search(ctx, "despejo por falta de pagamento", "", 2)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(2)
	gt.Value(t, results[0].Metadata["doc_id"]).Equal("lei-inquilinato")
	gt.Value(t, results[0].Source).Equal("kb:lei-inquilinato")
	gt.Value(t, strings.Contains(results[0].Text, "despejo")).Equal(true)
}

func TestSearchTopicFilter(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)

	gt.NoError(t, idx.Add(ctx, "lei-inquilinato", "Lei do Inquilinato", "imobiliario", []string{
		"A ação de despejo por falta de pagamento admite purgação da mora.",
	})).Required()
	gt.NoError(t, idx.Add(ctx, "alimentos", "Pensão alimentícia", "familia", []string{
		"A pensão alimentícia é fixada conforme o binômio necessidade e possibilidade.",
	})).Required()

	results, err := idx.Search(ctx, "despejo", "familia", 5)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(1)
	gt.Value(t, results[0].Metadata["topic"]).Equal("familia")
}

func TestAddReplacesDocument(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)

	gt.NoError(t, idx.Add(ctx, "doc-1", "v1", "geral", []string{
		"primeira versão do texto", "segundo trecho da primeira versão",
	})).Required()
	gt.NoError(t, idx.Add(ctx, "doc-1", "v2", "geral", []string{
		"versão revisada do texto",
	})).Required()

	results, err := idx.Search(ctx, "texto", "", 10)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(1)
	gt.Value(t, results[0].Metadata["title"]).Equal("v2")
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := newTestIndex(t)

	results, err := idx.Search(context.Background(), "  ", "", 3)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(0)
}
