package types

import "github.com/google/uuid"

// SessionID identifies a conversation session
type SessionID string

// NewSessionID generates a new random session ID
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// String returns the string representation of the session ID
func (id SessionID) String() string {
	return string(id)
}

// IsValid checks if the session ID is non-empty
func (id SessionID) IsValid() bool {
	return id != ""
}

// MessageID identifies a single message within a session
type MessageID string

// NewMessageID generates a new random message ID
func NewMessageID() MessageID {
	return MessageID(uuid.NewString())
}

// String returns the string representation of the message ID
func (id MessageID) String() string {
	return string(id)
}

// IsValid checks if the message ID is non-empty
func (id MessageID) IsValid() bool {
	return id != ""
}
