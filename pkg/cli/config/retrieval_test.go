package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/juris-lab/themis/pkg/cli/config"
	"github.com/juris-lab/themis/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retrieval.toml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0600)).Required()
	return path
}

func TestRetrievalDefaults(t *testing.T) {
	var cfg config.Retrieval

	policy, err := cfg.Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, policy).Equal(usecase.DefaultPolicy())
}

func TestRetrievalOverridesOnlyNamedKeys(t *testing.T) {
	var cfg config.Retrieval
	cfg.SetPath(writeConfig(t, `
coverage_threshold = 0.6
retriever_k = 10
append_low_coverage_note = false
`))

	policy, err := cfg.Configure()
	gt.NoError(t, err).Required()
	gt.Number(t, policy.CoverageThreshold).Equal(0.6)
	gt.Number(t, policy.RetrieverK).Equal(10)
	gt.Value(t, policy.AppendLowCoverageNote).Equal(false)

	// untouched keys keep their defaults
	defaults := usecase.DefaultPolicy()
	gt.Number(t, policy.RelevanceThreshold).Equal(defaults.RelevanceThreshold)
	gt.Number(t, policy.MaxContextChars).Equal(defaults.MaxContextChars)
}

func TestRetrievalRejectsOutOfRange(t *testing.T) {
	var cfg config.Retrieval
	cfg.SetPath(writeConfig(t, `coverage_threshold = 1.5`))

	_, err := cfg.Configure()
	gt.Value(t, err).NotNil()
}

func TestRetrievalRejectsBrokenTOML(t *testing.T) {
	var cfg config.Retrieval
	cfg.SetPath(writeConfig(t, `coverage_threshold = [`))

	_, err := cfg.Configure()
	gt.Value(t, err).NotNil()
}

func TestRetrievalMissingFile(t *testing.T) {
	var cfg config.Retrieval
	cfg.SetPath(filepath.Join(t.TempDir(), "absent.toml"))

	_, err := cfg.Configure()
	gt.Value(t, err).NotNil()
}
