package usecase

import "github.com/m-mizutani/goerr/v2"

// Policy holds the numeric knobs of the retrieval and answer pipeline.
// Defaults match production; deployments tune them through the retrieval
// config file.
type Policy struct {
	// CoverageThreshold triggers the secondary case-law pass and the
	// low-coverage disclaimer when coverage falls below it
	CoverageThreshold float64

	// MinRAGChunks triggers the query rewrite when fewer fused results
	// survive
	MinRAGChunks int

	// RelevanceThreshold is the token-overlap floor against the raw
	// user text
	RelevanceThreshold float64

	// MinKeep bounds how far the relevance filter may shrink the set
	MinKeep int

	// MMRSimilarityThreshold rejects candidates too similar to an
	// already picked item
	MMRSimilarityThreshold float64

	// PerDocCap limits results per document identity
	PerDocCap int

	// MaxContextChars bounds the evidence pack size
	MaxContextChars int

	// RetrieverK is the per-source and final result count target
	RetrieverK int

	// FanoutQueries bounds how many expanded queries hit the sources
	FanoutQueries int

	// SummaryMaxChars bounds the derived summary of a pack entry
	SummaryMaxChars int

	// ExcerptMaxChars bounds the excerpt of a pack entry
	ExcerptMaxChars int

	// AppendLowCoverageNote adds a preliminary-advice note to grounded
	// answers built on thin evidence
	AppendLowCoverageNote bool
}

func DefaultPolicy() Policy {
	return Policy{
		CoverageThreshold:      0.45,
		MinRAGChunks:           2,
		RelevanceThreshold:     0.12,
		MinKeep:                3,
		MMRSimilarityThreshold: 0.6,
		PerDocCap:              3,
		MaxContextChars:        4500,
		RetrieverK:             6,
		FanoutQueries:          6,
		SummaryMaxChars:        200,
		ExcerptMaxChars:        450,
		AppendLowCoverageNote:  true,
	}
}

// Validate rejects out-of-range thresholds before the pipeline runs
func (p Policy) Validate() error {
	if p.CoverageThreshold < 0 || p.CoverageThreshold > 1 {
		return goerr.New("coverage threshold must be within [0, 1]",
			goerr.V("value", p.CoverageThreshold))
	}
	if p.RelevanceThreshold < 0 || p.RelevanceThreshold > 1 {
		return goerr.New("relevance threshold must be within [0, 1]",
			goerr.V("value", p.RelevanceThreshold))
	}
	if p.MMRSimilarityThreshold <= 0 || p.MMRSimilarityThreshold > 1 {
		return goerr.New("MMR similarity threshold must be within (0, 1]",
			goerr.V("value", p.MMRSimilarityThreshold))
	}
	if p.RetrieverK <= 0 {
		return goerr.New("retriever k must be positive", goerr.V("value", p.RetrieverK))
	}
	if p.MaxContextChars <= 0 {
		return goerr.New("max context chars must be positive", goerr.V("value", p.MaxContextChars))
	}
	if p.PerDocCap <= 0 {
		return goerr.New("per-document cap must be positive", goerr.V("value", p.PerDocCap))
	}
	if p.FanoutQueries <= 0 {
		return goerr.New("fan-out query count must be positive", goerr.V("value", p.FanoutQueries))
	}
	return nil
}
