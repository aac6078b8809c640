package retriever

import (
	"regexp"
	"strings"
)

// DefaultChunkSize bounds one evidence unit in characters
const DefaultChunkSize = 450

var blankLine = regexp.MustCompile(`\n\s*\n`)

// Chunk splits free text into units of at most maxChars characters.
// Splitting prefers blank-line boundaries, then sentence boundaries, and
// only cuts inside a sentence when a single sentence exceeds the limit.
func Chunk(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultChunkSize
	}

	var chunks []string
	for _, para := range blankLine.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len([]rune(para)) <= maxChars {
			chunks = append(chunks, para)
			continue
		}
		chunks = append(chunks, packSentences(splitSentences(para), maxChars)...)
	}
	return chunks
}

// splitSentences breaks text after terminal punctuation followed by
// whitespace. Good enough for legal prose; abbreviations may over-split
// but chunks stay within bounds either way.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		if i+1 < len(runes) && !isSpace(runes[i+1]) {
			continue
		}
		s := strings.TrimSpace(string(runes[start : i+1]))
		if s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func packSentences(sentences []string, maxChars int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, s := range sentences {
		n := len([]rune(s))
		if n > maxChars {
			flush()
			chunks = append(chunks, hardSplit(s, maxChars)...)
			continue
		}
		if currentLen > 0 && currentLen+1+n > maxChars {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(s)
		currentLen += n
	}
	flush()
	return chunks
}

func hardSplit(s string, maxChars int) []string {
	runes := []rune(s)
	var chunks []string
	for len(runes) > maxChars {
		chunks = append(chunks, strings.TrimSpace(string(runes[:maxChars])))
		runes = runes[maxChars:]
	}
	if tail := strings.TrimSpace(string(runes)); tail != "" {
		chunks = append(chunks, tail)
	}
	return chunks
}
