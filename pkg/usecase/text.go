package usecase

import (
	"regexp"
	"strings"
)

// fold lowercases and strips the accents common in Brazilian Portuguese
// so keyword and overlap comparisons are diacritic-insensitive.
var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

func fold(s string) string {
	return accentFolder.Replace(strings.ToLower(s))
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// tokenize folds the text and extracts alphanumeric tokens
func tokenize(s string) []string {
	return tokenRe.FindAllString(fold(s), -1)
}

// overlapPrefixChars caps how much text feeds the overlap metric
const overlapPrefixChars = 400

// tokenOverlap computes |A∩B| / (1 + min(|A|, |B|)) over the token sets
// of the first 400 chars of each text. Zero when either side is empty.
func tokenOverlap(a, b string) float64 {
	ta := tokenSet(clipRunes(a, overlapPrefixChars))
	tb := tokenSet(clipRunes(b, overlapPrefixChars))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	smaller, larger := ta, tb
	if len(tb) < len(ta) {
		smaller, larger = tb, ta
	}
	shared := 0
	for t := range smaller {
		if larger[t] {
			shared++
		}
	}
	return float64(shared) / float64(1+len(smaller))
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range tokenize(s) {
		set[t] = true
	}
	return set
}

// clipRunes truncates a string to at most n runes
func clipRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// firstSentence returns the text up to and including the first terminal
// punctuation mark, or the whole text when there is none.
func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			return s[:i+len(string(r))]
		}
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
