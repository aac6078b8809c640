package retriever_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/service/retriever"
	"github.com/m-mizutani/gt"
)

func TestChunkPrefersBlankLines(t *testing.T) {
	text := "Primeiro parágrafo sobre o contrato de locação.\n\nSegundo parágrafo sobre a garantia locatícia."
	chunks := retriever.Chunk(text, 450)
	gt.Array(t, chunks).Length(2)
	gt.Value(t, chunks[0]).Equal("Primeiro parágrafo sobre o contrato de locação.")
	gt.Value(t, chunks[1]).Equal("Segundo parágrafo sobre a garantia locatícia.")
}

func TestChunkBreaksAtSentences(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("O locador pode exigir garantia locatícia na forma do artigo trinta e sete da lei. ")
	}
	chunks := retriever.Chunk(b.String(), 200)

	gt.Number(t, len(chunks)).Greater(1)
	for _, c := range chunks {
		gt.Number(t, len([]rune(c))).LessOrEqual(200)
		gt.Value(t, strings.HasSuffix(c, "lei.")).Equal(true)
	}
}

func TestChunkHardSplitsOversizedSentence(t *testing.T) {
	text := strings.Repeat("palavra ", 100) // one sentence, no terminal punctuation
	chunks := retriever.Chunk(text, 100)

	gt.Number(t, len(chunks)).Greater(1)
	for _, c := range chunks {
		gt.Number(t, len([]rune(c))).LessOrEqual(100)
	}
}

func TestChunkEmptyInput(t *testing.T) {
	gt.Array(t, retriever.Chunk("", 450)).Length(0)
	gt.Array(t, retriever.Chunk("\n\n  \n\n", 450)).Length(0)
}

type staticBlob struct {
	blob string
	err  error
}

func (p *staticBlob) Context(ctx context.Context, query string) (string, error) {
	return p.blob, p.err
}

func TestTextBlobAdapterChunksAndCaps(t *testing.T) {
	blob := "Primeiro trecho do manual.\n\nSegundo trecho do manual.\n\nTerceiro trecho do manual."
	adapter := retriever.NewTextBlobAdapter("manual", &staticBlob{blob: blob})

	evs, err := adapter.Retrieve(context.Background(), "manual", 2)
	gt.NoError(t, err).Required()
	gt.Array(t, evs).Length(2)
	gt.Value(t, evs[0].Source).Equal("manual")
	gt.Value(t, evs[0].Metadata["span"]).Equal("0")
	gt.Value(t, evs[1].Metadata["span"]).Equal("1")
}

type failingSource struct{}

func (s *failingSource) Name() string { return "flaky" }

func (s *failingSource) Retrieve(ctx context.Context, query string, k int) ([]model.Evidence, error) {
	return nil, errors.New("upstream down")
}

func TestSafeSwallowsFailure(t *testing.T) {
	src := retriever.Safe(&failingSource{})

	evs, err := src.Retrieve(context.Background(), "qualquer", 5)
	gt.NoError(t, err).Required()
	gt.Array(t, evs).Length(0)
	gt.Value(t, src.Name()).Equal("flaky")
}
