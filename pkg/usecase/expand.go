package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/utils/logging"
)

const (
	maxTagQueries = 5
	frameFieldMax = 160
)

// tagSynonyms maps an exact ontology tag to hand-picked search phrasings.
// Tags without an entry fall back to the humanized tag text.
var tagSynonyms = map[string][]string{
	"direito_penal_calunia":        {"calunia acusacao falsa", "crime contra a honra calunia"},
	"direito_penal_difamacao":      {"difamacao exposicao indevida", "crime contra a honra difamacao"},
	"direito_penal_injuria":        {"injuria ofensa xingamento", "crime contra a honra injuria"},
	"direito_penal_injuria_racial": {"injuria racial ofensa racista"},
	"direito_tributario_icms":      {"icms cobranca indevida", "substituicao tributaria icms"},
	"direito_previdenciario":       {"inss beneficio previdenciario", "aposentadoria requisitos"},
	"direito_empresarial":          {"sociedade empresaria contrato social"},
	"direito_ambiental":            {"dano ambiental responsabilidade"},
}

// textAliases expands colloquial phrasings into the vocabulary indexed
// documents actually use. Triggered by substring match on folded text.
var textAliases = map[string][]string{
	"negativacao":           {"serasa", "spc", "inscricao indevida", "nome sujo"},
	"serasa":                {"negativacao", "inscricao indevida", "nome sujo"},
	"injuria":               {"ofensa", "xingamento"},
	"calunia":               {"acusacao falsa"},
	"difamacao":             {"exposicao indevida"},
	"transferencia veiculo": {"transferencia de veiculo", "crlv", "dut", "multa apos venda"},
	"acidente de transito":  {"colisao", "batida de carro", "sinistro", "dpvat"},
	"compra e venda imovel": {"escritura", "promessa de compra e venda", "matricula", "registro"},
}

// aliasHeads fixes the iteration order over textAliases so expansion is
// deterministic for a given input
var aliasHeads = func() []string {
	heads := make([]string, 0, len(textAliases))
	for head := range textAliases {
		heads = append(heads, head)
	}
	sort.Strings(heads)
	return heads
}()

// lexicalSubs rewrites verb forms and slang into searchable variants
var lexicalSubs = [][2]string{
	{"transferencia", "transferir"},
	{"vendeu", "venda"},
	{"bateram", "batida"},
	{"divida", "debito"},
	{"caloteiro", "inadimplente"},
}

// Expand turns one user utterance into a bounded ordered set of search
// queries: the raw text, frame fields, tag-seeded variants, synonym
// expansions and lightweight lexical variants, deduplicated and capped.
func (uc *UseCases) Expand(userText string, frame model.CaseFrame, tags []string) *model.QuerySet {
	qs := model.NewQuerySet(userText)

	if frame.Facts != "" {
		qs.Add(clipRunes(frame.Facts, frameFieldMax))
	}
	if frame.Goal != "" {
		qs.Add(clipRunes(frame.Goal, frameFieldMax))
	}

	for i, tag := range tags {
		if i >= maxTagQueries {
			break
		}
		qs.Add(humanizeTag(tag) + " " + userText)
	}

	for _, tag := range tags {
		if syns, ok := tagSynonyms[tag]; ok {
			for _, s := range syns {
				qs.Add(s)
			}
			continue
		}
		qs.Add(humanizeTag(tag))
	}

	folded := fold(userText)
	for _, head := range aliasHeads {
		if !strings.Contains(folded, head) {
			continue
		}
		qs.Add(head)
		for _, alt := range textAliases[head] {
			qs.Add(alt)
		}
	}

	for _, sub := range lexicalSubs {
		if strings.Contains(folded, sub[0]) {
			qs.Add(strings.ReplaceAll(folded, sub[0], sub[1]))
		}
	}

	tokens := tokenize(userText)
	for _, g := range ngrams(tokens, 2) {
		qs.Add(g)
	}
	for _, g := range ngrams(tokens, 3) {
		qs.Add(g)
	}

	return qs
}

func humanizeTag(tag string) string {
	return strings.ReplaceAll(tag, "_", " ")
}

// ngrams joins consecutive tokens, skipping fragments too short to be
// useful search queries
func ngrams(tokens []string, n int) []string {
	var out []string
	for i := 0; i+n <= len(tokens); i++ {
		g := strings.Join(tokens[i:i+n], " ")
		if len(g) > 3 {
			out = append(out, g)
		}
	}
	return out
}

// rewriteQueries asks the generator for a handful of short alternative
// queries when retrieval came back nearly empty. Failures return nil;
// the caller keeps the original queries.
func (uc *UseCases) rewriteQueries(ctx context.Context, userText string) []string {
	if uc.generator == nil {
		return nil
	}

	out, err := uc.generator.Generate(ctx, interfaces.GenerateRequest{
		System: "Você reescreve perguntas jurídicas como consultas de busca curtas e objetivas.",
		Prompt: "Gere de 3 a 5 consultas de busca curtas para encontrar fundamentos sobre o caso abaixo. " +
			"Uma consulta por linha, sem numeração e sem pontuação final.\n\nCaso: " + userText,
	})
	if err != nil {
		logging.From(ctx).Warn("query rewrite failed", "error", err.Error())
		return nil
	}

	var queries []string
	for _, line := range strings.Split(out, "\n") {
		q := strings.TrimSpace(strings.TrimLeft(line, "-*0123456789.) "))
		if q == "" {
			continue
		}
		queries = append(queries, q)
		if len(queries) >= 5 {
			break
		}
	}
	return queries
}
