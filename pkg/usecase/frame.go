package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/utils/logging"
	"github.com/m-mizutani/gollem"
)

const frameSystemPrompt = "Você extrai dados estruturados de relatos jurídicos em português. " +
	"Preencha apenas o que estiver explícito no texto. Campos desconhecidos ficam vazios; nunca invente."

type frameResponse struct {
	Facts     string   `json:"facts"`
	Goal      string   `json:"goal"`
	Parties   []string `json:"parties"`
	Values    []string `json:"values"`
	Deadlines []string `json:"deadlines"`
	Tags      []string `json:"tags"`
}

// ExtractFrame pulls a structured CaseFrame out of the user's message.
// Any failure, from a missing LLM client to malformed JSON, yields an
// empty frame; extraction never blocks the pipeline.
func (uc *UseCases) ExtractFrame(ctx context.Context, userText string) model.CaseFrame {
	if uc.llmClient == nil || strings.TrimSpace(userText) == "" {
		return model.CaseFrame{}
	}

	session, err := uc.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(frameSchema()),
		gollem.WithSessionSystemPrompt(frameSystemPrompt),
	)
	if err != nil {
		logging.From(ctx).Warn("failed to create extraction session", "error", err.Error())
		return model.CaseFrame{}
	}

	resp, err := session.GenerateContent(ctx, gollem.Text("Relato do cliente:\n"+userText))
	if err != nil || len(resp.Texts) == 0 {
		logging.From(ctx).Warn("frame extraction failed", "error", errString(err))
		return model.CaseFrame{}
	}

	var parsed frameResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &parsed); err != nil {
		logging.From(ctx).Warn("frame extraction returned malformed JSON", "error", err.Error())
		return model.CaseFrame{}
	}

	return model.CaseFrame{
		Facts:     strings.TrimSpace(parsed.Facts),
		Goal:      strings.TrimSpace(parsed.Goal),
		Parties:   cleanList(parsed.Parties),
		Values:    cleanList(parsed.Values),
		Deadlines: cleanList(parsed.Deadlines),
		Tags:      cleanList(parsed.Tags),
	}
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// frameSchema describes the structured extraction output
func frameSchema() *gollem.Parameter {
	stringArray := func(desc string) *gollem.Parameter {
		return &gollem.Parameter{
			Type:        gollem.TypeArray,
			Description: desc,
			Items:       &gollem.Parameter{Type: gollem.TypeString},
		}
	}

	return &gollem.Parameter{
		Title:       "CaseFrame",
		Description: "Structured extraction of a legal request",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"facts": {
				Type:        gollem.TypeString,
				Description: "Resumo objetivo dos fatos relatados",
				Required:    true,
			},
			"goal": {
				Type:        gollem.TypeString,
				Description: "O que o cliente quer alcançar",
				Required:    true,
			},
			"parties":   stringArray("Pessoas ou empresas envolvidas"),
			"values":    stringArray("Valores monetários mencionados"),
			"deadlines": stringArray("Datas ou prazos mencionados"),
			"tags":      stringArray("Palavras-chave jurídicas do relato"),
		},
	}
}
