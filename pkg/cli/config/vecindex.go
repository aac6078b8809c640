package config

import (
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/juris-lab/themis/pkg/service/vecindex"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/urfave/cli/v3"
)

// VecIndex holds CLI flags for the local embedding index
type VecIndex struct {
	path      string
	dimension int
}

// Flags returns CLI flags for vector index configuration
func (v *VecIndex) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "index-path",
			Usage:       "Path to the sqlite-vec index file (knowledge base source disabled when empty)",
			Sources:     cli.EnvVars("THEMIS_INDEX_PATH"),
			Destination: &v.path,
		},
		&cli.IntFlag{
			Name:        "embedding-dim",
			Usage:       "Embedding dimension of the index",
			Value:       vecindex.DefaultDimension,
			Sources:     cli.EnvVars("THEMIS_EMBEDDING_DIM"),
			Destination: &v.dimension,
		},
	}
}

// Path returns the configured index path, empty when disabled
func (v *VecIndex) Path() string {
	return v.path
}

// Configure opens the vector index from the configured flags.
// Returns nil if no path is set. An index path without an LLM client is
// a configuration error because queries cannot be embedded.
func (v *VecIndex) Configure(llmClient gollem.LLMClient) (*vecindex.Index, error) {
	if v.path == "" {
		return nil, nil
	}
	if llmClient == nil {
		return nil, goerr.Wrap(types.ErrConfigurationMissing,
			"vector index requires an LLM client for embeddings")
	}

	index, err := vecindex.New(v.path, llmClient, vecindex.WithDimension(v.dimension))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open vector index", goerr.V("path", v.path))
	}
	return index, nil
}
