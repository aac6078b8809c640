package guard

import (
	"regexp"
	"strings"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
)

// Service is a deterministic rule-based safety guard applied to both
// user input and generated output. No model call, no network, no state.
type Service struct {
	rules []rule
}

var _ interfaces.Guard = &Service{}

type rule struct {
	pattern *regexp.Regexp
	reason  string
}

// New creates the guard with the built-in rule set
func New() *Service {
	return &Service{
		rules: []rule{
			{
				pattern: regexp.MustCompile(`(?i)como\s+(falsificar|forjar|adulterar)\s`),
				reason:  "pedido de auxílio para falsificação",
			},
			{
				pattern: regexp.MustCompile(`(?i)(burlar|enganar|fraudar)\s+(a\s+)?(justiça|juiz|per[ií]cia|fisco)`),
				reason:  "pedido de auxílio para fraude processual",
			},
			{
				pattern: regexp.MustCompile(`(?i)como\s+(ocultar|esconder|lavar)\s+(bens|dinheiro|patrim[oô]nio)`),
				reason:  "pedido de auxílio para ocultação de patrimônio",
			},
			{
				pattern: regexp.MustCompile(`(?i)(destruir|sumir\s+com|apagar)\s+(provas?|evid[eê]ncias?)`),
				reason:  "pedido de auxílio para destruição de provas",
			},
			{
				pattern: regexp.MustCompile(`(?i)(senha|credencial|cart[aã]o\s+de\s+cr[eé]dito)\s+(de\s+)?(terceiro|outra\s+pessoa|cliente)`),
				reason:  "solicitação de dados sigilosos de terceiros",
			},
			{
				pattern: regexp.MustCompile(`(?i)amea[cç]ar\s+(a\s+)?(testemunha|v[ií]tima|parte)`),
				reason:  "pedido de auxílio para coação de testemunha",
			},
		},
	}
}

// Check returns whether the text is allowed, with the matched reason
// when it is not. Empty text is allowed.
func (s *Service) Check(text string) interfaces.Verdict {
	t := strings.TrimSpace(text)
	if t == "" {
		return interfaces.Verdict{Allowed: true}
	}

	for _, r := range s.rules {
		if r.pattern.MatchString(t) {
			return interfaces.Verdict{Allowed: false, Reason: r.reason}
		}
	}
	return interfaces.Verdict{Allowed: true}
}
