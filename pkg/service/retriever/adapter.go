package retriever

import (
	"context"
	"strconv"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/juris-lab/themis/pkg/utils/logging"
)

// VectorAdapter exposes the local embedding index as a retrieval source
type VectorAdapter struct {
	index interfaces.VectorIndex
	topic types.Topic
}

var _ interfaces.Source = &VectorAdapter{}

func NewVectorAdapter(index interfaces.VectorIndex) *VectorAdapter {
	return &VectorAdapter{index: index}
}

// ForTopic returns a copy of the adapter that filters results to the
// given topic. The geral topic disables filtering.
func (a *VectorAdapter) ForTopic(topic types.Topic) *VectorAdapter {
	if topic == types.TopicGeral {
		topic = ""
	}
	return &VectorAdapter{index: a.index, topic: topic}
}

func (a *VectorAdapter) Name() string { return "vector" }

func (a *VectorAdapter) Retrieve(ctx context.Context, query string, k int) ([]model.Evidence, error) {
	return a.index.Search(ctx, query, string(a.topic), k)
}

// BlobProvider supplies a free-text context blob for a query. Adapters
// re-chunk the blob because blob providers have no notion of evidence
// units.
type BlobProvider interface {
	Context(ctx context.Context, query string) (string, error)
}

// TextBlobAdapter turns a blob provider into a retrieval source by
// chunking its output into bounded evidence units.
type TextBlobAdapter struct {
	name      string
	provider  BlobProvider
	chunkSize int
}

var _ interfaces.Source = &TextBlobAdapter{}

func NewTextBlobAdapter(name string, provider BlobProvider) *TextBlobAdapter {
	return &TextBlobAdapter{name: name, provider: provider, chunkSize: DefaultChunkSize}
}

func (a *TextBlobAdapter) Name() string { return a.name }

func (a *TextBlobAdapter) Retrieve(ctx context.Context, query string, k int) ([]model.Evidence, error) {
	blob, err := a.provider.Context(ctx, query)
	if err != nil {
		return nil, err
	}

	chunks := Chunk(blob, a.chunkSize)
	if len(chunks) > k {
		chunks = chunks[:k]
	}

	results := make([]model.Evidence, 0, len(chunks))
	for i, chunk := range chunks {
		results = append(results, model.Evidence{
			Text:   chunk,
			Source: a.name,
			Metadata: map[string]any{
				"doc_id": a.name,
				"span":   strconv.Itoa(i),
			},
		})
	}
	return results, nil
}

// safeSource shields the fusion layer from source failures. Errors are
// logged and the source contributes nothing to that round.
type safeSource struct {
	inner interfaces.Source
}

var _ interfaces.Source = &safeSource{}

// Safe wraps a source so that retrieval failures degrade to empty
// results instead of aborting the whole fan-out.
func Safe(src interfaces.Source) interfaces.Source {
	return &safeSource{inner: src}
}

func (s *safeSource) Name() string { return s.inner.Name() }

func (s *safeSource) Retrieve(ctx context.Context, query string, k int) ([]model.Evidence, error) {
	results, err := s.inner.Retrieve(ctx, query, k)
	if err != nil {
		logging.From(ctx).Warn("retrieval source failed",
			"source", s.inner.Name(), "error", err.Error())
		return nil, nil
	}
	return results, nil
}
