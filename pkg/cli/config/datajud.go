package config

import (
	"github.com/juris-lab/themis/pkg/service/datajud"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// DataJud holds CLI flags for the CNJ DataJud case-law source
type DataJud struct {
	apiKey string
	rpm    int
}

// Flags returns CLI flags for DataJud configuration
func (d *DataJud) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "datajud-api-key",
			Usage:       "CNJ DataJud API key (case-law lookup disabled when empty)",
			Sources:     cli.EnvVars("THEMIS_DATAJUD_API_KEY"),
			Destination: &d.apiKey,
		},
		&cli.IntFlag{
			Name:        "datajud-rpm",
			Usage:       "DataJud request rate limit per minute",
			Value:       120,
			Sources:     cli.EnvVars("THEMIS_DATAJUD_RPM"),
			Destination: &d.rpm,
		},
	}
}

// Configure creates a DataJud client from the configured flags.
// Returns nil if no API key is set (case-law features will be disabled).
func (d *DataJud) Configure() (*datajud.Client, error) {
	if d.apiKey == "" {
		return nil, nil
	}

	client, err := datajud.New(d.apiKey, datajud.WithRequestsPerMinute(d.rpm))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create DataJud client")
	}
	return client, nil
}
