package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one watched auction stream.
type Session struct {
	ID        string
	Source    string
	StartedAt time.Time

	cancel context.CancelFunc
}

// SessionManager tracks running sessions. At most one session per
// source is allowed.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Start registers a new session and returns it with a derived context.
func (m *SessionManager) Start(ctx context.Context, source string) (*Session, context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.Source == source {
			return nil, nil, fmt.Errorf("session already running for source %s", source)
		}
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: time.Now(),
		cancel:    cancel,
	}
	m.sessions[s.ID] = s
	return s, sessionCtx, nil
}

// Stop cancels and removes a session.
func (m *SessionManager) Stop(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("unknown session %s", id)
	}
	s.cancel()
	delete(m.sessions, id)
	return nil
}

// Get returns a running session by id.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Active lists running sessions.
func (m *SessionManager) Active() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// StopAll cancels every running session.
func (m *SessionManager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		s.cancel()
		delete(m.sessions, id)
	}
}
