package usecase

import (
	"fmt"
	"strings"

	"github.com/juris-lab/themis/pkg/domain/model"
)

// BuildPack renders the fused results as a numbered citation block for
// the generator. Entries that would push the total past the budget are
// dropped whole, never truncated mid-entry.
func (uc *UseCases) BuildPack(results []model.FusedResult) string {
	return buildPack(results, uc.policy.MaxContextChars, uc.policy.SummaryMaxChars, uc.policy.ExcerptMaxChars)
}

func buildPack(results []model.FusedResult, budget, summaryMax, excerptMax int) string {
	var sb strings.Builder
	total := 0

	for i, r := range results {
		summary := strings.TrimSuffix(clipRunes(firstSentence(r.Evidence.Text), summaryMax), ".")
		excerpt := clipRunes(r.Evidence.Text, excerptMax)

		entry := fmt.Sprintf("[S%d] %s.\nTrecho: %s", i+1, summary, excerpt)
		sep := 0
		if total > 0 {
			sep = 2
		}
		if total+sep+len(entry) > budget {
			break
		}
		if sep > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(entry)
		total += sep + len(entry)
	}

	return sb.String()
}

// PackSources derives the audit trail of a reply: one record per fused
// result, labeled with its citation marker. Never shown to the client.
func PackSources(results []model.FusedResult) []model.SourceRecord {
	records := make([]model.SourceRecord, 0, len(results))
	for i, r := range results {
		records = append(records, model.SourceRecord{
			Label:  fmt.Sprintf("S%d", i+1),
			Source: r.Evidence.Source,
			DocID:  r.Evidence.DocID(),
		})
	}
	return records
}
