package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/juris-lab/themis/pkg/service/retriever"
	"github.com/juris-lab/themis/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// caseLawMarkers flag evidence that already reads like case law, which
// makes the secondary registry pass unnecessary
var caseLawMarkers = []string{
	"ementa", "precedente", "jurisprudencia", "relator", "acordao", "sumula",
}

// minSignalTokens is the floor below which a query is too vague to
// justify the secondary case-law pass
const minSignalTokens = 4

// Fuse fans the queries out across all sources, merges the ranked lists
// with reciprocal-rank scoring keyed by normalized text, applies
// diversity and relevance filtering plus a per-document cap, and returns
// the final set with its coverage score.
func (uc *UseCases) Fuse(ctx context.Context, queries *model.QuerySet, userText string, topic types.Topic) ([]model.FusedResult, float64) {
	k := uc.policy.RetrieverK
	sources := uc.sourcesFor(topic)
	if len(sources) == 0 {
		return nil, 0
	}

	lists := uc.fanOut(ctx, queries.Head(uc.policy.FanoutQueries), sources, k)

	candidates := accumulate(lists)
	picked := mmrSelect(candidates, k, uc.policy.MMRSimilarityThreshold)
	picked = uc.relevanceFilter(picked, userText)
	picked = capPerDoc(picked, uc.policy.PerDocCap)

	coverage := model.Coverage(picked, k)
	if uc.shouldRunCaseLawPass(picked, coverage, userText) {
		picked = uc.caseLawPass(ctx, picked, userText, k)
		coverage = model.Coverage(picked, k)
	}

	return picked, coverage
}

// sourcesFor prepares the per-request source list: the vector adapter is
// narrowed to the detected topic and every source is failure-isolated.
func (uc *UseCases) sourcesFor(topic types.Topic) []interfaces.Source {
	out := make([]interfaces.Source, 0, len(uc.sources))
	for _, src := range uc.sources {
		if va, ok := src.(*retriever.VectorAdapter); ok {
			src = va.ForTopic(topic)
		}
		out = append(out, retriever.Safe(src))
	}
	return out
}

// fanOut retrieves every query against every source concurrently. The
// result slot layout is fixed up front so output order does not depend
// on goroutine scheduling.
func (uc *UseCases) fanOut(ctx context.Context, queries []string, sources []interfaces.Source, k int) [][]model.Evidence {
	lists := make([][]model.Evidence, len(queries)*len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for qi, query := range queries {
		for si, src := range sources {
			slot := qi*len(sources) + si
			query, src := query, src
			g.Go(func() error {
				evs, err := src.Retrieve(ctx, query, k)
				if err != nil {
					// Safe-wrapped sources never return errors; keep the
					// slot empty if one slips through anyway
					logging.From(ctx).Warn("source error escaped isolation",
						"source", src.Name(), "error", err.Error())
					return nil
				}
				lists[slot] = evs
				return nil
			})
		}
	}
	_ = g.Wait()

	return lists
}

type candidate struct {
	ev    model.Evidence
	score float64
	order int
}

// accumulate merges ranked lists into per-key candidates. Identity is
// normalized text, so the same snippet surfacing under several queries
// accumulates score instead of duplicating.
func accumulate(lists [][]model.Evidence) []candidate {
	byKey := make(map[string]*candidate)
	var keys []string

	for _, list := range lists {
		for rank, ev := range list {
			if strings.TrimSpace(ev.Text) == "" {
				continue
			}
			key := ev.Key()
			c, ok := byKey[key]
			if !ok {
				c = &candidate{ev: ev, order: len(keys)}
				byKey[key] = c
				keys = append(keys, key)
			}
			c.score += 1.0 / float64(rank+1)
		}
	}

	out := make([]candidate, 0, len(keys))
	for _, key := range keys {
		out = append(out, *byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].order < out[j].order
	})
	return out
}

// mmrSelect greedily picks up to k candidates, rejecting any whose token
// overlap with an already picked item reaches the threshold
func mmrSelect(candidates []candidate, k int, threshold float64) []model.FusedResult {
	var picked []model.FusedResult
	for _, c := range candidates {
		if len(picked) >= k {
			break
		}
		similar := false
		for _, p := range picked {
			if tokenOverlap(c.ev.Text, p.Evidence.Text) >= threshold {
				similar = true
				break
			}
		}
		if similar {
			continue
		}
		picked = append(picked, model.FusedResult{Evidence: c.ev, Score: c.score})
	}
	return picked
}

// relevanceFilter drops items with too little token overlap against the
// raw user text, but never starves the set below MinKeep.
func (uc *UseCases) relevanceFilter(results []model.FusedResult, userText string) []model.FusedResult {
	var kept []model.FusedResult
	for _, r := range results {
		if tokenOverlap(r.Evidence.Text, userText) >= uc.policy.RelevanceThreshold {
			kept = append(kept, r)
		}
	}

	minKeep := uc.policy.MinKeep
	if minKeep > len(results) {
		minKeep = len(results)
	}
	if len(kept) < minKeep {
		return results[:minKeep]
	}
	return kept
}

// capPerDoc limits how many results a single document may contribute
func capPerDoc(results []model.FusedResult, limit int) []model.FusedResult {
	if limit <= 0 {
		return results
	}
	counts := make(map[string]int)
	var out []model.FusedResult
	for _, r := range results {
		id := r.Evidence.DocID()
		if counts[id] >= limit {
			continue
		}
		counts[id]++
		out = append(out, r)
	}
	return out
}

func (uc *UseCases) shouldRunCaseLawPass(results []model.FusedResult, coverage float64, userText string) bool {
	if len(uc.caselaw) == 0 || coverage >= uc.policy.CoverageThreshold {
		return false
	}
	if len(tokenize(userText)) < minSignalTokens {
		return false
	}
	for _, r := range results {
		if looksLikeCaseLaw(r.Evidence.Text) {
			return false
		}
	}
	return true
}

func looksLikeCaseLaw(text string) bool {
	folded := fold(text)
	for _, marker := range caseLawMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

// caseLawPass queries the case-law sources directly with the raw user
// text and prepends any hits, keeping the set deduplicated and bounded.
func (uc *UseCases) caseLawPass(ctx context.Context, results []model.FusedResult, userText string, k int) []model.FusedResult {
	var hits []model.FusedResult
	for _, src := range uc.caselaw {
		evs, err := retriever.Safe(src).Retrieve(ctx, userText, k)
		if err != nil {
			continue
		}
		for rank, ev := range evs {
			if strings.TrimSpace(ev.Text) == "" {
				continue
			}
			hits = append(hits, model.FusedResult{Evidence: ev, Score: 1.0 / float64(rank+1)})
		}
	}
	if len(hits) == 0 {
		return results
	}

	seen := make(map[string]bool)
	var merged []model.FusedResult
	for _, r := range append(hits, results...) {
		key := r.Evidence.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, r)
		if len(merged) >= k {
			break
		}
	}
	return merged
}
