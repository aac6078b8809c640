package memory

import (
	"github.com/juris-lab/themis/pkg/domain/interfaces"
)

// Memory is an in-memory repository for development and tests
type Memory struct {
	session *sessionRepository
	message *messageRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		session: newSessionRepository(),
		message: newMessageRepository(),
	}
}

func (m *Memory) Session() interfaces.SessionRepository {
	return m.session
}

func (m *Memory) Message() interfaces.MessageRepository {
	return m.message
}

func (m *Memory) Close() error {
	return nil
}
