package diagnosis

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"homefix/internal/domain"
	"homefix/internal/providers/genai"
)

// Manager owns the live diagnosis sessions, keyed by session id. Sessions idle
// beyond the TTL (or pushed out by the capacity bound) are evicted and closed.
type Manager struct {
	client   genai.Client
	logger   zerolog.Logger
	sessions *expirable.LRU[string, *Session]
}

// NewManager builds a session registry bounded by maxSessions and ttl.
func NewManager(client genai.Client, logger zerolog.Logger, maxSessions int, ttl time.Duration) *Manager {
	onEvict := func(id string, session *Session) {
		session.Close()
		logger.Debug().Str("session_id", id).Msg("diagnosis: session evicted")
	}
	return &Manager{
		client:   client,
		logger:   logger,
		sessions: expirable.NewLRU[string, *Session](maxSessions, onEvict, ttl),
	}
}

// Create registers a fresh idle session for one diagnosis conversation.
func (m *Manager) Create(locale string) *Session {
	session := NewSession(m.client, m.logger, locale)
	m.sessions.Add(session.ID, session)
	return session
}

// Get returns the live session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	session, ok := m.sessions.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// Close ends the session's conversation. The session stays in the registry
// until the TTL evicts it, so its history remains readable after closing;
// further turns are rejected by the session itself.
func (m *Manager) Close(id string) error {
	session, ok := m.sessions.Get(id)
	if !ok {
		return domain.ErrNotFound
	}
	session.Close()
	return nil
}
