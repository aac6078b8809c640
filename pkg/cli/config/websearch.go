package config

import (
	"github.com/juris-lab/themis/pkg/service/websearch"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// WebSearch holds CLI flags for the Tavily web search source
type WebSearch struct {
	apiKey string
}

// Flags returns CLI flags for web search configuration
func (w *WebSearch) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tavily-api-key",
			Usage:       "Tavily API key (web search source disabled when empty)",
			Sources:     cli.EnvVars("THEMIS_TAVILY_API_KEY"),
			Destination: &w.apiKey,
		},
	}
}

// Configure creates a web search client from the configured flags.
// Returns nil if no API key is set.
func (w *WebSearch) Configure() (*websearch.Client, error) {
	if w.apiKey == "" {
		return nil, nil
	}

	client, err := websearch.New(w.apiKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create web search client")
	}
	return client, nil
}
