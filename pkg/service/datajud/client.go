package datajud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/time/rate"
)

// The CNJ terms of use cap clients at 120 requests per minute
const (
	defaultRequestsPerMinute = 120
	defaultTimeout           = 20 * time.Second
	defaultPageSize          = 10
)

// Client queries the CNJ DataJud public API
type Client struct {
	apiKey     string
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithPageSize(size int) Option {
	return func(c *Client) {
		c.pageSize = size
	}
}

func WithRequestsPerMinute(rpm int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)
	}
}

// New creates a DataJud client. The API key is mandatory.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.Wrap(types.ErrConfigurationMissing, "datajud API key is required")
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		pageSize:   defaultPageSize,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerMinute/60.0), defaultRequestsPerMinute),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var cnjFormatted = regexp.MustCompile(`\b(\d{7})-?(\d{2})\.?(\d{4})\.?(\d)\.?(\d{2})\.?(\d{4})\b`)
var nonDigit = regexp.MustCompile(`\D+`)

// ExtractCNJNumbers finds CNJ process numbers in free text, either in the
// formatted NNNNNNN-DD.AAAA.J.TR.OOOO shape or as a bare 20-digit run.
func ExtractCNJNumbers(text string) []string {
	if text == "" {
		return nil
	}

	var found []string
	for _, m := range cnjFormatted.FindAllStringSubmatch(text, -1) {
		found = append(found, strings.Join(m[1:], ""))
	}

	// Any 20-digit run once punctuation is stripped, but only within
	// number-bearing fragments so unrelated digits do not concatenate
	for _, frag := range strings.Fields(text) {
		raw := nonDigit.ReplaceAllString(frag, "")
		if len(raw) == 20 {
			found = append(found, raw)
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, s := range found {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// processTriggers are the words that justify a free-text registry lookup
// when no CNJ number is present
var processTriggers = []string{
	"processo", "número", "numero", "vara", "tribunal", "comarca",
	"orgao julgador", "órgão julgador",
}

// Retrieve implements the evidence source contract over the registry.
// With a CNJ number in the query it scans candidate tribunals stopping at
// the first hit; without one it only queries when the text mentions
// process vocabulary.
func (c *Client) Retrieve(ctx context.Context, query string, k int) ([]model.Evidence, error) {
	q := strings.TrimSpace(query)
	if q == "" || k <= 0 {
		return nil, nil
	}

	aliases := GuessAliases(q)

	if numbers := ExtractCNJNumbers(q); len(numbers) > 0 {
		var out []model.Evidence
		for _, num := range numbers[:min(len(numbers), 2)] {
			body := map[string]any{
				"size":  min(c.pageSize, 50),
				"query": map[string]any{"match": map[string]any{"numeroProcesso": num}},
				"sort":  []any{map[string]any{"@timestamp": map[string]any{"order": "asc"}}},
			}
			for _, alias := range aliases {
				items, err := c.search(ctx, alias, body)
				if err != nil {
					return nil, err
				}
				if len(items) > 0 {
					out = append(out, items...)
					break
				}
			}
			if len(out) >= k {
				break
			}
		}
		return truncate(out, k), nil
	}

	lower := strings.ToLower(q)
	triggered := false
	for _, trigger := range processTriggers {
		if strings.Contains(lower, trigger) {
			triggered = true
			break
		}
	}
	if !triggered {
		return nil, nil
	}

	body := map[string]any{
		"size":  min(c.pageSize, 10),
		"query": map[string]any{"match": map[string]any{"classe.nome": q}},
		"sort":  []any{map[string]any{"@timestamp": map[string]any{"order": "asc"}}},
	}

	var out []model.Evidence
	for _, alias := range aliases[:min(len(aliases), 5)] {
		items, err := c.search(ctx, alias, body)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(out) >= k {
			break
		}
	}
	return truncate(out, k), nil
}

// Name identifies the source in logs and audit records
func (c *Client) Name() string {
	return "datajud"
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source processDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type processDocument struct {
	NumeroProcesso  string          `json:"numeroProcesso"`
	Tribunal        string          `json:"tribunal"`
	Grau            string          `json:"grau"`
	DataAjuizamento string          `json:"dataAjuizamento"`
	Classe          named           `json:"classe"`
	OrgaoJulgador   named           `json:"orgaoJulgador"`
	AssuntosRaw     json.RawMessage `json:"assuntos"`
	Movimentos      []movimento     `json:"movimentos"`

	Assuntos []named `json:"-"`
}

type named struct {
	Nome string `json:"nome"`
}

type movimento struct {
	Nome     string `json:"nome"`
	DataHora string `json:"dataHora"`
}

func (c *Client) search(ctx context.Context, alias string, body map[string]any) ([]model.Evidence, error) {
	path, ok := aliasPaths[strings.ToLower(strings.TrimSpace(alias))]
	if !ok {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, goerr.Wrap(err, "rate limiter interrupted")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode datajud query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build datajud request", goerr.V("alias", alias))
	}
	req.Header.Set("Authorization", "APIKey "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(types.ErrSourceUnavailable, "datajud request failed",
			goerr.V("alias", alias), goerr.V("cause", err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, goerr.Wrap(types.ErrSourceUnavailable, "datajud returned error status",
			goerr.V("alias", alias), goerr.V("status", resp.StatusCode))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode datajud response", goerr.V("alias", alias))
	}

	var out []model.Evidence
	for _, hit := range parsed.Hits.Hits {
		if len(out) >= c.pageSize {
			break
		}
		doc := hit.Source
		doc.Assuntos = parseAssuntos(doc.AssuntosRaw)
		out = append(out, model.Evidence{
			Text:   renderProcess(doc),
			Source: "datajud:" + alias,
			Metadata: map[string]any{
				"alias":  alias,
				"doc_id": hit.ID,
			},
		})
	}
	return out, nil
}

// parseAssuntos tolerates the nested list shape some state courts return
func parseAssuntos(raw json.RawMessage) []named {
	if len(raw) == 0 {
		return nil
	}

	var flat []named
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat
	}

	var nested [][]named
	if err := json.Unmarshal(raw, &nested); err == nil {
		var out []named
		for _, group := range nested {
			out = append(out, group...)
		}
		return out
	}
	return nil
}

// renderProcess turns a registry document into citable evidence text
func renderProcess(doc processDocument) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Processo %s – %s – Grau %s", doc.NumeroProcesso, doc.Tribunal, doc.Grau)
	if doc.Classe.Nome != "" {
		fmt.Fprintf(&sb, "\nClasse: %s", doc.Classe.Nome)
	}
	if doc.OrgaoJulgador.Nome != "" {
		fmt.Fprintf(&sb, "\nÓrgão julgador: %s", doc.OrgaoJulgador.Nome)
	}
	if doc.DataAjuizamento != "" {
		fmt.Fprintf(&sb, "\nAjuizamento: %s", doc.DataAjuizamento)
	}

	var assuntos []string
	seen := make(map[string]bool)
	for _, a := range doc.Assuntos {
		if a.Nome == "" || seen[a.Nome] {
			continue
		}
		seen[a.Nome] = true
		assuntos = append(assuntos, a.Nome)
		if len(assuntos) >= 5 {
			break
		}
	}
	if len(assuntos) > 0 {
		fmt.Fprintf(&sb, "\nAssuntos: %s", strings.Join(assuntos, ", "))
	}

	movs := append([]movimento(nil), doc.Movimentos...)
	sort.Slice(movs, func(i, j int) bool {
		return movs[i].DataHora > movs[j].DataHora
	})
	if len(movs) > 3 {
		movs = movs[:3]
	}
	if len(movs) > 0 {
		sb.WriteString("\nÚltimos movimentos:")
		for _, m := range movs {
			if m.Nome != "" {
				fmt.Fprintf(&sb, "\n- %s (%s)", m.Nome, m.DataHora)
			} else {
				fmt.Fprintf(&sb, "\n- %s", m.DataHora)
			}
		}
	}

	return sb.String()
}

func truncate(items []model.Evidence, k int) []model.Evidence {
	if len(items) > k {
		return items[:k]
	}
	return items
}
