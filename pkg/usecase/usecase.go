package usecase

import (
	"time"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/service/ontology"
	"github.com/m-mizutani/gollem"
)

// UseCases wires the retrieval, fusion and answer pipeline together.
// Everything except the repository is optional: missing collaborators
// degrade the pipeline (no tags, no retrieval, template answers) instead
// of failing it.
type UseCases struct {
	repo      interfaces.Repository
	generator interfaces.Generator
	guard     interfaces.Guard
	tagger    *ontology.Tagger
	sources   []interfaces.Source
	caselaw   []interfaces.Source
	llmClient gollem.LLMClient
	policy    Policy
	refine    bool
	now       func() time.Time
}

type Option func(*UseCases)

// WithGenerator sets the text generator used for answers, query rewrites
// and frame extraction fallbacks
func WithGenerator(g interfaces.Generator) Option {
	return func(uc *UseCases) {
		uc.generator = g
	}
}

// WithGuard sets the safety guard applied to input and output
func WithGuard(g interfaces.Guard) Option {
	return func(uc *UseCases) {
		uc.guard = g
	}
}

// WithTagger sets the ontology topic tagger
func WithTagger(t *ontology.Tagger) Option {
	return func(uc *UseCases) {
		uc.tagger = t
	}
}

// WithSources sets the retrieval sources used in the primary fan-out
func WithSources(sources ...interfaces.Source) Option {
	return func(uc *UseCases) {
		uc.sources = sources
	}
}

// WithCaseLawSources sets the sources used by the secondary case-law
// pass when coverage is low
func WithCaseLawSources(sources ...interfaces.Source) Option {
	return func(uc *UseCases) {
		uc.caselaw = sources
	}
}

// WithLLMClient sets the raw LLM client used for structured extraction
func WithLLMClient(c gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = c
	}
}

// WithPolicy overrides the retrieval policy
func WithPolicy(p Policy) Option {
	return func(uc *UseCases) {
		uc.policy = p
	}
}

// WithToneRefinement enables the best-effort rewrite of grounded answers
// into plain client-facing language
func WithToneRefinement(enabled bool) Option {
	return func(uc *UseCases) {
		uc.refine = enabled
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		policy: DefaultPolicy(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
