package usecase

import (
	"context"
	"strings"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/types"
)

// fallback renders the deterministic per-topic template. It is the
// terminal safety net: no generation, no citations, never empty.
func (uc *UseCases) fallback(ctx context.Context, in AnswerInput) string {
	topic := uc.resolveTopic(ctx, in)

	tmpl, ok := fallbackTemplates[topic]
	if !ok {
		tmpl = fallbackTemplates[types.TopicGeral]
	}
	return tmpl
}

// resolveTopic normalizes whatever topic signal exists into a canonical
// topic, in order of reliability: the pipeline's detected topic, the
// ontology tags, keyword scan of the raw text, one LLM guess, geral.
func (uc *UseCases) resolveTopic(ctx context.Context, in AnswerInput) types.Topic {
	if in.Topic.IsValid() && in.Topic != types.TopicGeral {
		return in.Topic
	}

	for _, tag := range in.Tags {
		if t := topicFromTag(tag); t != types.TopicGeral {
			return t
		}
	}

	if t := topicFromKeywords(in.UserText); t != types.TopicGeral {
		return t
	}

	if uc.generator != nil {
		out, err := uc.generator.Generate(ctx, interfaces.GenerateRequest{
			System: "Você classifica perguntas jurídicas por área do direito.",
			Prompt: "Responda com uma única palavra, a área do direito da pergunta abaixo " +
				"(imobiliario, trabalhista, consumidor, familia, penal, previdenciario, tributario ou geral):\n\n" + in.UserText,
		})
		if err == nil {
			if t := types.ParseTopic(strings.TrimSpace(out)); t != types.TopicGeral {
				return t
			}
		}
	}

	return types.TopicGeral
}

// topicFromTag maps an ontology tag to a canonical topic by prefix
func topicFromTag(tag string) types.Topic {
	switch {
	case strings.HasPrefix(tag, "direito_penal"), strings.HasPrefix(tag, "direito_processual_penal"):
		return types.TopicPenal
	case strings.HasPrefix(tag, "direito_tributario"):
		return types.TopicTributario
	case strings.HasPrefix(tag, "direito_previdenciario"):
		return types.TopicPrevidenciario
	default:
		return types.ParseTopic(tag)
	}
}

// topicKeywords drives the lightweight keyword classifier. Scanned in
// fixed order; the first topic with a hit wins.
var topicKeywords = []struct {
	topic    types.Topic
	keywords []string
}{
	{types.TopicImobiliario, []string{"aluguel", "locacao", "despejo", "imovel", "condominio", "locador", "inquilino", "escritura"}},
	{types.TopicTrabalhista, []string{"salario", "empregado", "empregador", "rescisao", "clt", "demitido", "justa causa", "verbas"}},
	{types.TopicFamilia, []string{"divorcio", "guarda", "pensao", "casamento", "adocao", "alimentos"}},
	{types.TopicPrevidenciario, []string{"inss", "aposentadoria", "beneficio", "previdenciario", "auxilio"}},
	{types.TopicTributario, []string{"imposto", "tributo", "fiscal", "icms", "iptu", "ipva", "irpf", "irpj"}},
	{types.TopicPenal, []string{"crime", "pena", "prisao", "delegacia", "policia", "calunia", "difamacao", "injuria"}},
	{types.TopicConsumidor, []string{"produto", "loja", "garantia", "compra", "consumidor", "negativacao", "serasa", "spc"}},
}

func topicFromKeywords(text string) types.Topic {
	folded := fold(text)
	for _, entry := range topicKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(folded, kw) {
				return entry.topic
			}
		}
	}
	return types.TopicGeral
}

// fallbackTemplates are the deterministic answers used when retrieval or
// generation comes up empty. They never cite evidence and never promise
// specific legal outcomes.
var fallbackTemplates = map[types.Topic]string{
	types.TopicImobiliario: `Diagnóstico preliminar (área: imobiliario)
Sua situação envolve direito imobiliário, como locação, despejo, compra e venda ou questões de condomínio.

Ações imediatas:
- Reúna o contrato (locação ou compra e venda) e os comprovantes de pagamento;
- Guarde as conversas e notificações trocadas com a outra parte;
- Não assine nenhum aditivo ou acordo antes da análise.

Fundamentos: a orientação definitiva depende da análise do contrato e da legislação aplicável, como a Lei do Inquilinato e o Código Civil.

Documentos necessários: contrato, comprovantes de pagamento, notificações recebidas, matrícula do imóvel se houver.

Riscos e prazos: prazos de purgação de mora e de resposta a notificações costumam ser curtos; agir cedo evita a perda de direitos.

Como atuaremos: análise documental, tentativa de solução extrajudicial e, se necessário, a medida judicial cabível.

Proposta de honorários: definida após a análise inicial, com valor fixo e possibilidade de parcelamento.

Próximos passos: me envie o contrato e descreva datas e valores envolvidos. Pode me adiantar esses detalhes?`,

	types.TopicTrabalhista: `Diagnóstico preliminar (área: trabalhista)
Sua situação envolve direito do trabalho, como demissão, verbas rescisórias ou condições de trabalho.

Ações imediatas:
- Reúna o contrato de trabalho, holerites e o termo de rescisão, se houver;
- Anote datas de admissão, demissão e o que foi combinado verbalmente;
- Não assine quitações sem entender o que está sendo pago.

Fundamentos: a CLT e as convenções coletivas da categoria regem a maior parte desses casos; a análise dos documentos define o que é devido.

Documentos necessários: carteira de trabalho, contrato, holerites, termo de rescisão, mensagens com o empregador.

Riscos e prazos: ações trabalhistas têm prazo de prescrição; em regra dois anos após o fim do contrato. Não deixe para depois.

Como atuaremos: cálculo das verbas, tentativa de acordo e, se necessário, reclamação trabalhista.

Proposta de honorários: usualmente percentual sobre o êxito, combinado por escrito antes de iniciar.

Próximos passos: me informe a data de saída e se houve justa causa alegada. Pode me contar?`,

	types.TopicConsumidor: `Diagnóstico preliminar (área: consumidor)
Sua situação envolve relação de consumo, como cobrança indevida, negativação, produto com defeito ou serviço mal prestado.

Ações imediatas:
- Guarde notas fiscais, contratos, faturas e protocolos de atendimento;
- Registre reclamação formal junto ao fornecedor e anote o protocolo;
- Se houve negativação, solicite por escrito o detalhamento da dívida.

Fundamentos: o Código de Defesa do Consumidor protege contra cobrança indevida e falhas de produto ou serviço; a análise dos comprovantes define a medida cabível.

Documentos necessários: comprovante da compra ou contrato, faturas, protocolos, print da negativação se houver.

Riscos e prazos: reclamações por vício de produto têm prazos curtos (30 ou 90 dias conforme o caso); danos por negativação indevida prescrevem em anos, mas a prova se perde rápido.

Como atuaremos: notificação extrajudicial, tentativa de acordo e, se necessário, ação com pedido de reparação.

Proposta de honorários: valor fixo para a fase extrajudicial e percentual de êxito na judicial.

Próximos passos: me envie os comprovantes e o nome da empresa envolvida. Consegue reunir isso?`,

	types.TopicFamilia: `Diagnóstico preliminar (área: familia)
Sua situação envolve direito de família, como divórcio, guarda de filhos, pensão alimentícia ou partilha de bens.

Ações imediatas:
- Reúna certidões (casamento, nascimento dos filhos) e comprovantes de renda;
- Anote o que já foi combinado entre as partes, mesmo informalmente;
- Evite acordos verbais sobre guarda ou pensão sem registro.

Fundamentos: o Código Civil e o Estatuto da Criança e do Adolescente orientam esses casos; pensão segue o binômio necessidade e possibilidade.

Documentos necessários: certidões, comprovantes de renda das partes, despesas dos filhos, relação de bens.

Riscos e prazos: alimentos retroagem de forma limitada; quanto antes formalizar, melhor a proteção.

Como atuaremos: tentativa de acordo consensual e, se não houver consenso, a ação judicial adequada.

Proposta de honorários: valor fixo para consensual; para litígio, definido após a análise inicial.

Próximos passos: me conte se há filhos menores e se existe possibilidade de acordo. Como está essa conversa hoje?`,

	types.TopicPenal: `Diagnóstico preliminar (área: penal)
Sua situação envolve direito penal, seja como vítima de um crime, seja respondendo a uma acusação.

Ações imediatas:
- Preserve todas as provas: mensagens, prints, testemunhas, boletim de ocorrência;
- Se ainda não registrou boletim de ocorrência, avalie registrá-lo o quanto antes;
- Não converse sobre o caso com a outra parte sem orientação.

Fundamentos: o Código Penal e o Código de Processo Penal regem esses casos; crimes contra a honra, por exemplo, dependem de queixa dentro do prazo.

Documentos necessários: boletim de ocorrência, prints e mensagens, dados de testemunhas, intimações recebidas.

Riscos e prazos: a queixa-crime em crimes contra a honra tem prazo decadencial de seis meses; intimações têm prazos próprios e improrrogáveis.

Como atuaremos: análise da conduta, orientação sobre a via criminal e cível cabível e acompanhamento de todos os atos.

Proposta de honorários: definidos conforme a fase (inquérito, queixa, defesa), sempre por escrito.

Próximos passos: me descreva o ocorrido com datas e se já há boletim de ocorrência. Pode detalhar?`,

	types.TopicPrevidenciario: `Diagnóstico preliminar (área: previdenciario)
Sua situação envolve direito previdenciário, como benefício negado, aposentadoria ou revisão junto ao INSS.

Ações imediatas:
- Reúna o extrato CNIS, carta de concessão ou de indeferimento e laudos médicos, se houver;
- Guarde os protocolos de requerimento no Meu INSS;
- Não perca prazos de recurso administrativo indicados na carta.

Fundamentos: a legislação previdenciária define carência, tempo de contribuição e requisitos de cada benefício; o extrato CNIS é a base de qualquer análise.

Documentos necessários: CNIS, cartas do INSS, laudos e exames, carteira de trabalho.

Riscos e prazos: recursos administrativos têm prazo de 30 dias; revisões têm prazo decadencial de dez anos.

Como atuaremos: análise do indeferimento, recurso administrativo ou ação judicial, conforme o caso.

Proposta de honorários: em regra percentual sobre as parcelas recebidas com a concessão, combinado por escrito.

Próximos passos: me envie a carta do INSS e o extrato CNIS. Consegue acessar o Meu INSS?`,

	types.TopicTributario: `Diagnóstico preliminar (área: tributario)
Sua situação envolve direito tributário, como cobrança de imposto, autuação fiscal ou execução fiscal.

Ações imediatas:
- Reúna a notificação ou certidão de dívida ativa recebida;
- Não ignore citações de execução fiscal: os prazos correm rápido;
- Verifique se o débito já não foi pago ou está prescrito.

Fundamentos: o Código Tributário Nacional rege prescrição, decadência e defesas do contribuinte; a análise do lançamento define a estratégia.

Documentos necessários: notificações, guias pagas, certidão de dívida ativa, contrato social se for empresa.

Riscos e prazos: embargos e exceções em execução fiscal têm prazos curtos; a inércia pode levar a penhora.

Como atuaremos: análise do débito, defesa administrativa ou judicial e negociação de parcelamento quando for vantajoso.

Proposta de honorários: definidos conforme o valor em discussão, por escrito.

Próximos passos: me envie a notificação ou o número da execução fiscal. Você já foi citado?`,

	types.TopicGeral: `Diagnóstico preliminar (área: geral)
Ainda não consegui enquadrar seu caso em uma área específica, mas posso orientar os primeiros passos.

Ações imediatas:
- Reúna todos os documentos e conversas relacionados ao problema;
- Anote datas, valores e nomes das pessoas ou empresas envolvidas;
- Evite assinar qualquer documento antes da análise.

Fundamentos: a orientação precisa depende dos detalhes do caso; com os documentos em mãos a análise é rápida.

Documentos necessários: contratos, comprovantes, mensagens e notificações relacionadas.

Riscos e prazos: muitos direitos têm prazos de prescrição ou decadência; não adie a busca de orientação.

Como atuaremos: análise inicial do caso, definição da estratégia e condução extrajudicial ou judicial conforme necessário.

Proposta de honorários: apresentada após a análise inicial, sempre por escrito.

Próximos passos: me conte o que aconteceu, com datas e valores. Pode descrever o caso?`,
}
