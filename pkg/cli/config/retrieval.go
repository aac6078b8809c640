package config

import (
	"os"

	"github.com/juris-lab/themis/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Retrieval holds CLI flags for the retrieval pipeline tunables
type Retrieval struct {
	configPath string
}

// retrievalFile mirrors usecase.Policy with optional TOML keys so a
// config file only overrides what it names
type retrievalFile struct {
	CoverageThreshold      *float64 `toml:"coverage_threshold"`
	MinRAGChunks           *int     `toml:"min_rag_chunks"`
	RelevanceThreshold     *float64 `toml:"relevance_threshold"`
	MinKeep                *int     `toml:"min_keep"`
	MMRSimilarityThreshold *float64 `toml:"mmr_similarity_threshold"`
	PerDocCap              *int     `toml:"per_doc_cap"`
	MaxContextChars        *int     `toml:"max_context_chars"`
	RetrieverK             *int     `toml:"retriever_k"`
	FanoutQueries          *int     `toml:"fanout_queries"`
	SummaryMaxChars        *int     `toml:"summary_max_chars"`
	ExcerptMaxChars        *int     `toml:"excerpt_max_chars"`
	AppendLowCoverageNote  *bool    `toml:"append_low_coverage_note"`
}

// Flags returns CLI flags for retrieval configuration
func (r *Retrieval) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "retrieval-config",
			Usage:       "Path to TOML file with retrieval pipeline tunables",
			Sources:     cli.EnvVars("THEMIS_RETRIEVAL_CONFIG"),
			Destination: &r.configPath,
		},
	}
}

// Path returns the configured file path, empty when defaults apply
func (r *Retrieval) Path() string {
	return r.configPath
}

// Configure returns the retrieval policy: defaults, overlaid with the
// TOML file when one is configured, then validated.
func (r *Retrieval) Configure() (usecase.Policy, error) {
	policy := usecase.DefaultPolicy()
	if r.configPath == "" {
		return policy, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(r.configPath)
	if err != nil {
		return policy, goerr.Wrap(err, "failed to read retrieval config", goerr.V("path", r.configPath))
	}

	var file retrievalFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return policy, goerr.Wrap(err, "failed to parse retrieval config", goerr.V("path", r.configPath))
	}

	if file.CoverageThreshold != nil {
		policy.CoverageThreshold = *file.CoverageThreshold
	}
	if file.MinRAGChunks != nil {
		policy.MinRAGChunks = *file.MinRAGChunks
	}
	if file.RelevanceThreshold != nil {
		policy.RelevanceThreshold = *file.RelevanceThreshold
	}
	if file.MinKeep != nil {
		policy.MinKeep = *file.MinKeep
	}
	if file.MMRSimilarityThreshold != nil {
		policy.MMRSimilarityThreshold = *file.MMRSimilarityThreshold
	}
	if file.PerDocCap != nil {
		policy.PerDocCap = *file.PerDocCap
	}
	if file.MaxContextChars != nil {
		policy.MaxContextChars = *file.MaxContextChars
	}
	if file.RetrieverK != nil {
		policy.RetrieverK = *file.RetrieverK
	}
	if file.FanoutQueries != nil {
		policy.FanoutQueries = *file.FanoutQueries
	}
	if file.SummaryMaxChars != nil {
		policy.SummaryMaxChars = *file.SummaryMaxChars
	}
	if file.ExcerptMaxChars != nil {
		policy.ExcerptMaxChars = *file.ExcerptMaxChars
	}
	if file.AppendLowCoverageNote != nil {
		policy.AppendLowCoverageNote = *file.AppendLowCoverageNote
	}

	if err := policy.Validate(); err != nil {
		return policy, goerr.Wrap(err, "retrieval config validation failed", goerr.V("path", r.configPath))
	}
	return policy, nil
}
