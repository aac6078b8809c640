package datajud

import "strings"

// DefaultBaseURL is the CNJ public search API
const DefaultBaseURL = "https://api-publica.datajud.cnj.jus.br"

// aliasPaths maps a tribunal alias to its search endpoint path
var aliasPaths = map[string]string{
	// Tribunais Superiores
	"tst": "/api_publica_tst/_search",
	"tse": "/api_publica_tse/_search",
	"stj": "/api_publica_stj/_search",
	"stm": "/api_publica_stm/_search",
	// Justiça Federal
	"trf1": "/api_publica_trf1/_search",
	"trf2": "/api_publica_trf2/_search",
	"trf3": "/api_publica_trf3/_search",
	"trf4": "/api_publica_trf4/_search",
	"trf5": "/api_publica_trf5/_search",
	"trf6": "/api_publica_trf6/_search",
	// Justiça Estadual
	"tjac":  "/api_publica_tjac/_search",
	"tjal":  "/api_publica_tjal/_search",
	"tjam":  "/api_publica_tjam/_search",
	"tjap":  "/api_publica_tjap/_search",
	"tjba":  "/api_publica_tjba/_search",
	"tjce":  "/api_publica_tjce/_search",
	"tjdft": "/api_publica_tjdft/_search",
	"tjes":  "/api_publica_tjes/_search",
	"tjgo":  "/api_publica_tjgo/_search",
	"tjma":  "/api_publica_tjma/_search",
	"tjmg":  "/api_publica_tjmg/_search",
	"tjms":  "/api_publica_tjms/_search",
	"tjmt":  "/api_publica_tjmt/_search",
	"tjpa":  "/api_publica_tjpa/_search",
	"tjpb":  "/api_publica_tjpb/_search",
	"tjpe":  "/api_publica_tjpe/_search",
	"tjpi":  "/api_publica_tjpi/_search",
	"tjpr":  "/api_publica_tjpr/_search",
	"tjrj":  "/api_publica_tjrj/_search",
	"tjrn":  "/api_publica_tjrn/_search",
	"tjro":  "/api_publica_tjro/_search",
	"tjrr":  "/api_publica_tjrr/_search",
	"tjrs":  "/api_publica_tjrs/_search",
	"tjsc":  "/api_publica_tjsc/_search",
	"tjse":  "/api_publica_tjse/_search",
	"tjsp":  "/api_publica_tjsp/_search",
	"tjto":  "/api_publica_tjto/_search",
	// Justiça Militar Estadual
	"tjmmg": "/api_publica_tjmmg/_search",
	"tjmrs": "/api_publica_tjmrs/_search",
	"tjmsp": "/api_publica_tjmsp/_search",
}

// preferredOrder lists the tribunals to scan when the user did not name
// one, most demanded courts first
var preferredOrder = []string{
	"tjsp", "tjrj", "tjmg", "tjrs", "tjba", "tjpr", "tjsc", "tjpe", "tjce", "tjdft",
	"trf1", "trf2", "trf3", "trf4", "trf5", "trf6",
	"stj", "tst", "tse", "stm",
}

// knownSiglas are the acronyms scanned for inside user text
var knownSiglas = []string{
	"TJSP", "TJRJ", "TJMG", "TJRS", "TJBA", "TJPR", "TJSC", "TJPE", "TJCE", "TJDFT", "TJGO",
	"TRF1", "TRF2", "TRF3", "TRF4", "TRF5", "TRF6",
	"STJ", "TST", "TSE", "STM",
	"TJMS", "TJMT", "TJPA", "TJPB", "TJPI", "TJRN", "TJRO", "TJRR", "TJTO", "TJES", "TJMA",
	"TJAP", "TJAL", "TJAM", "TJAC",
}

// GuessAliases detects tribunal acronyms in the text. With no explicit
// mention it falls back to the preferred scan order.
func GuessAliases(text string) []string {
	upper := strings.ToUpper(text)

	var hits []string
	seen := make(map[string]bool)
	for _, sigla := range knownSiglas {
		if !strings.Contains(upper, sigla) {
			continue
		}
		key := strings.ToLower(sigla)
		if _, ok := aliasPaths[key]; !ok || seen[key] {
			continue
		}
		seen[key] = true
		hits = append(hits, key)
	}

	if len(hits) > 0 {
		return hits
	}
	return append([]string(nil), preferredOrder...)
}
