package model

import (
	"time"

	"github.com/juris-lab/themis/pkg/domain/types"
)

// Session is a conversation with one client over one channel
type Session struct {
	ID        types.SessionID
	Channel   string
	Phase     types.SessionPhase
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates a session in the triage phase
func NewSession(channel string, now time.Time) *Session {
	return &Session{
		ID:        types.NewSessionID(),
		Channel:   channel,
		Phase:     types.PhaseTriage,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SourceRecord is an audit entry describing one evidence item that backed
// a reply. Stored for review, never rendered to the client.
type SourceRecord struct {
	Label  string
	Source string
	DocID  string
}

// Message is a single user or assistant turn within a session
type Message struct {
	ID        types.MessageID
	SessionID types.SessionID
	Role      types.MessageRole
	Text      string
	Topic     types.Topic
	Intent    types.Intent
	Entities  []string
	Coverage  float64
	Sources   []SourceRecord
	CreatedAt time.Time
}

// NewUserMessage creates an inbound message record
func NewUserMessage(sessionID types.SessionID, text string, now time.Time) *Message {
	return &Message{
		ID:        types.NewMessageID(),
		SessionID: sessionID,
		Role:      types.RoleUser,
		Text:      text,
		CreatedAt: now,
	}
}

// NewAssistantMessage creates an outbound message record
func NewAssistantMessage(sessionID types.SessionID, text string, now time.Time) *Message {
	return &Message{
		ID:        types.NewMessageID(),
		SessionID: sessionID,
		Role:      types.RoleAssistant,
		Text:      text,
		CreatedAt: now,
	}
}
