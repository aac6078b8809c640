package ontology

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// maxLeavesPerOntology caps how many leaf tags a single ontology may
// contribute for one input text
const maxLeavesPerOntology = 3

// Matcher detects leaf labels of one legal ontology inside free text.
// Matching is pure string containment over accent-folded, lowercased
// forms; there is no model call and no network access.
type Matcher struct {
	prefix string
	leaves []leaf
}

type leaf struct {
	label  string // raw label, e.g. "calunia"
	phrase string // normalized match phrase, e.g. "calunia"
}

// NewMatcher builds a matcher from a nested ontology document. The
// document must have exactly one top-level key, which becomes the tag
// prefix and macro tag.
func NewMatcher(raw []byte) (*Matcher, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, goerr.Wrap(err, "failed to parse ontology document")
	}
	if len(doc) != 1 {
		return nil, goerr.New("ontology document must have a single root", goerr.V("roots", len(doc)))
	}

	m := &Matcher{}
	for prefix, tree := range doc {
		m.prefix = prefix
		m.collectLeaves(tree)
	}
	if len(m.leaves) == 0 {
		return nil, goerr.New("ontology document has no leaves", goerr.V("prefix", m.prefix))
	}
	return m, nil
}

func (m *Matcher) collectLeaves(node any) {
	switch v := node.(type) {
	case map[string]any:
		// Walk branches in sorted key order so leaf order, and therefore
		// which leaves survive the per-ontology cap, is stable across runs
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.collectLeaves(v[k])
		}
	case []any:
		for _, item := range v {
			if label, ok := item.(string); ok && label != "" {
				m.leaves = append(m.leaves, leaf{
					label:  label,
					phrase: normalize(strings.ReplaceAll(label, "_", " ")),
				})
			}
		}
	}
}

// Prefix returns the ontology's root key
func (m *Matcher) Prefix() string {
	return m.prefix
}

// Match returns tags for leaves whose phrase appears in the text, capped
// per ontology, plus the macro tag when anything matched. Deterministic
// for a given input.
func (m *Matcher) Match(text string) []string {
	folded := normalize(text)
	if folded == "" {
		return nil
	}

	var tags []string
	for _, l := range m.leaves {
		if len(tags) >= maxLeavesPerOntology {
			break
		}
		if strings.Contains(folded, l.phrase) {
			tags = append(tags, m.prefix+"_"+l.label)
		}
	}

	if len(tags) == 0 {
		return nil
	}
	return append(tags, m.prefix)
}

// normalize lowercases and strips Portuguese diacritics so that
// "Calúnia" matches the leaf "calunia".
func normalize(s string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(s)))
}

var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)
