package services

import (
	"context"
	"slices"
	"sync"

	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
)

// Memory implements the Store interface in process memory. Logs are lost when the server stops, which
// matches a session's lifetime in the browser.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string][]models.Message
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string][]models.Message),
	}
}

// AddSession registers a session with an empty log.
func (m *Memory) AddSession(_ context.Context, session models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[session.ID]; !ok {
		m.sessions[session.ID] = nil
	}
	return nil
}

// DeleteSession drops a session and its log.
func (m *Memory) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

// Messages returns a copy of the session's log.
func (m *Memory) Messages(_ context.Context, sessionID string) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs, ok := m.sessions[sessionID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return slices.Clone(msgs), nil
}

// AddMessage appends a message to the session's log.
func (m *Memory) AddMessage(_ context.Context, sessionID string, message models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs, ok := m.sessions[sessionID]
	if !ok {
		return models.ErrSessionNotFound
	}
	m.sessions[sessionID] = append(msgs, message)
	return nil
}
