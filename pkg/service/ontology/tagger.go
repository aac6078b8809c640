package ontology

import (
	"embed"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

//go:embed data/*.json
var ontologyFS embed.FS

// Tagger runs every bundled ontology matcher over a text and merges the
// resulting tags. It never fails at tagging time.
type Tagger struct {
	matchers []*Matcher
}

// New loads all bundled ontology documents
func New() (*Tagger, error) {
	entries, err := ontologyFS.ReadDir("data")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read ontology data")
	}

	// Sort for a stable matcher order across runs
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	t := &Tagger{}
	for _, entry := range entries {
		raw, err := ontologyFS.ReadFile("data/" + entry.Name())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read ontology file", goerr.V("file", entry.Name()))
		}
		m, err := NewMatcher(raw)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to build ontology matcher", goerr.V("file", entry.Name()))
		}
		t.matchers = append(t.matchers, m)
	}

	return t, nil
}

// Tags returns all ontology tags matched in the text, leaf tags first,
// one macro tag per matched ontology. Order is stable per input.
func (t *Tagger) Tags(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range t.matchers {
		for _, tag := range m.Match(text) {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

// Hints converts tags into human-readable phrases for repair prompts,
// e.g. "direito_penal_calunia" becomes "calunia (direito penal)".
func (t *Tagger) Hints(tags []string) []string {
	var hints []string
	for _, tag := range tags {
		for _, m := range t.matchers {
			if tag == m.prefix {
				continue
			}
			if leafLabel, ok := strings.CutPrefix(tag, m.prefix+"_"); ok {
				hints = append(hints,
					strings.ReplaceAll(leafLabel, "_", " ")+
						" ("+strings.ReplaceAll(m.prefix, "_", " ")+")")
				break
			}
		}
	}
	return hints
}
