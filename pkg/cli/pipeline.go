package cli

import (
	"context"

	"github.com/juris-lab/themis/pkg/cli/config"
	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/service/generator"
	"github.com/juris-lab/themis/pkg/service/guard"
	"github.com/juris-lab/themis/pkg/service/ontology"
	"github.com/juris-lab/themis/pkg/service/retriever"
	"github.com/juris-lab/themis/pkg/usecase"
	"github.com/juris-lab/themis/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/urfave/cli/v3"
)

// pipelineConfig bundles the configuration shared by every command that
// runs the message pipeline (serve, ask, chat)
type pipelineConfig struct {
	llm       config.LLM
	retrieval config.Retrieval
	datajud   config.DataJud
	websearch config.WebSearch
	index     config.VecIndex

	toneRefine bool
}

func (p *pipelineConfig) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "tone-refine",
			Usage:       "Rewrite grounded answers into plain client-facing language (extra LLM call)",
			Sources:     cli.EnvVars("THEMIS_TONE_REFINE"),
			Destination: &p.toneRefine,
		},
	}
	flags = append(flags, p.llm.Flags()...)
	flags = append(flags, p.retrieval.Flags()...)
	flags = append(flags, p.datajud.Flags()...)
	flags = append(flags, p.websearch.Flags()...)
	flags = append(flags, p.index.Flags()...)
	return flags
}

// Options builds the usecase options from the configured flags. The
// returned closer releases held resources (the vector index) and must
// run on shutdown. Missing optional pieces disable their feature with a
// log line instead of failing startup.
func (p *pipelineConfig) Options(ctx context.Context) ([]usecase.Option, func(), error) {
	logger := logging.Default()

	tagger, err := ontology.New()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load ontology data")
	}

	policy, err := p.retrieval.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load retrieval config")
	}

	opts := []usecase.Option{
		usecase.WithGuard(guard.New()),
		usecase.WithTagger(tagger),
		usecase.WithPolicy(policy),
		usecase.WithToneRefinement(p.toneRefine),
	}

	llmClient, err := p.llm.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure LLM client")
	}
	if llmClient != nil {
		gen, err := generator.New(llmClient)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create generator")
		}
		opts = append(opts,
			usecase.WithGenerator(gen),
			usecase.WithLLMClient(llmClient),
		)
	} else {
		logger.Warn("LLM client not configured, answers fall back to templates")
	}

	srcOpts, closer, err := p.sourceOptions(llmClient)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, srcOpts...)

	return opts, closer, nil
}

// sourceOptions wires the retrieval sources that are configured. Only
// the vector index joins the primary fan-out; DataJud and web search
// serve the coverage-gated secondary pass.
func (p *pipelineConfig) sourceOptions(llmClient gollem.LLMClient) ([]usecase.Option, func(), error) {
	logger := logging.Default()
	closer := func() {}

	var opts []usecase.Option
	var primary []interfaces.Source
	var caseLaw []interfaces.Source

	index, err := p.index.Configure(llmClient)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open vector index")
	}
	if index != nil {
		primary = append(primary, retriever.NewVectorAdapter(index))
		closer = func() {
			if err := index.Close(); err != nil {
				logger.Error("failed to close vector index", "error", err.Error())
			}
		}
		logger.Info("Vector index source enabled", "path", p.index.Path())
	}

	dj, err := p.datajud.Configure()
	if err != nil {
		return nil, closer, goerr.Wrap(err, "failed to configure DataJud client")
	}
	if dj != nil {
		caseLaw = append(caseLaw, dj)
		logger.Info("DataJud case-law source enabled")
	}

	ws, err := p.websearch.Configure()
	if err != nil {
		return nil, closer, goerr.Wrap(err, "failed to configure web search")
	}
	if ws != nil {
		caseLaw = append(caseLaw, ws)
		logger.Info("Web search fallback enabled")
	}

	if len(primary) > 0 {
		opts = append(opts, usecase.WithSources(primary...))
	}
	if len(caseLaw) > 0 {
		opts = append(opts, usecase.WithCaseLawSources(caseLaw...))
	}

	return opts, closer, nil
}
