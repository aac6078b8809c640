package types

import "strings"

// Topic is a canonical legal practice area used for routing and fallback templates
type Topic string

const (
	TopicImobiliario    Topic = "imobiliario"
	TopicTrabalhista    Topic = "trabalhista"
	TopicConsumidor     Topic = "consumidor"
	TopicFamilia        Topic = "familia"
	TopicPenal          Topic = "penal"
	TopicPrevidenciario Topic = "previdenciario"
	TopicTributario     Topic = "tributario"
	TopicGeral          Topic = "geral"
)

// AllTopics returns all canonical topics
func AllTopics() []Topic {
	return []Topic{
		TopicImobiliario,
		TopicTrabalhista,
		TopicConsumidor,
		TopicFamilia,
		TopicPenal,
		TopicPrevidenciario,
		TopicTributario,
		TopicGeral,
	}
}

// IsValid checks if the topic is one of the canonical values
func (t Topic) IsValid() bool {
	switch t {
	case TopicImobiliario,
		TopicTrabalhista,
		TopicConsumidor,
		TopicFamilia,
		TopicPenal,
		TopicPrevidenciario,
		TopicTributario,
		TopicGeral:
		return true
	default:
		return false
	}
}

// String returns the string representation of the topic
func (t Topic) String() string {
	return string(t)
}

// ParseTopic normalizes a free-form label into a canonical topic.
// Unknown or empty labels map to TopicGeral.
func ParseTopic(s string) Topic {
	label := strings.ToLower(strings.TrimSpace(s))
	label = strings.TrimPrefix(label, "direito_")
	label = strings.TrimPrefix(label, "direito ")

	switch label {
	case "imobiliario", "imobiliário":
		return TopicImobiliario
	case "trabalhista", "trabalho":
		return TopicTrabalhista
	case "consumidor", "consumerista":
		return TopicConsumidor
	case "familia", "família":
		return TopicFamilia
	case "penal", "criminal":
		return TopicPenal
	case "previdenciario", "previdenciário", "previdencia", "previdência":
		return TopicPrevidenciario
	case "tributario", "tributário", "fiscal":
		return TopicTributario
	case "civel", "cível", "civil", "geral", "":
		return TopicGeral
	}

	topic := Topic(label)
	if topic.IsValid() {
		return topic
	}
	return TopicGeral
}
