package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/juris-lab/themis/pkg/cli/config"
	"github.com/juris-lab/themis/pkg/service/ontology"
	"github.com/juris-lab/themis/pkg/utils/logging"
)

func cmdValidate() *cli.Command {
	var retrievalCfg config.Retrieval

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate retrieval configuration and bundled ontology data",
		Flags:   retrievalCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			policy, err := retrievalCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "retrieval config validation failed")
			}
			logger.Info("Retrieval config validated",
				"path", retrievalCfg.Path(),
				"coverage_threshold", policy.CoverageThreshold,
				"min_rag_chunks", policy.MinRAGChunks,
				"relevance_threshold", policy.RelevanceThreshold,
				"mmr_similarity_threshold", policy.MMRSimilarityThreshold,
				"per_doc_cap", policy.PerDocCap,
				"max_context_chars", policy.MaxContextChars,
				"retriever_k", policy.RetrieverK,
				"fanout_queries", policy.FanoutQueries,
			)

			tagger, err := ontology.New()
			if err != nil {
				return goerr.Wrap(err, "ontology data validation failed")
			}

			// A known phrase must produce at least one tag, otherwise the
			// bundled data is broken
			if tags := tagger.Tags("fui acusado de calunia e difamacao"); len(tags) == 0 {
				return goerr.New("ontology data loaded but matched nothing")
			}

			logger.Info("Ontology data validated")
			return nil
		},
	}
}
