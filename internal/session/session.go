package session

import (
	"sync"
	"time"

	"elevator-chat/internal/conversation"
	"elevator-chat/internal/helper"
	"elevator-chat/internal/models"
)

// Session is the explicit per-browser-session context: everything the
// Streamlit-era session_state held, with a lifecycle tied to login/logout.
// Handlers serialize access through Mu; the manager only guards its map.
type Session struct {
	Token       string
	UserID      string
	Email       string
	AccessToken string
	CreatedAt   time.Time
	LastSeen    time.Time

	Mu            sync.Mutex
	Chunks        []models.Chunk
	Conversations *conversation.List
	History       []conversation.Message
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create registers a fresh session for an authenticated user.
func (m *Manager) Create(userID, email, accessToken string, conversations *conversation.List) (*Session, error) {
	token, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := &Session{
		Token:         token,
		UserID:        userID,
		Email:         email,
		AccessToken:   accessToken,
		CreatedAt:     now,
		LastSeen:      now,
		Conversations: conversations,
	}

	m.mu.Lock()
	m.pruneLocked(now)
	m.sessions[token] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the live session for the token, touching its last-seen time.
// Expired sessions are treated as absent.
func (m *Manager) Get(token string) (*Session, bool) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	if now.Sub(s.LastSeen) > m.ttl {
		delete(m.sessions, token)
		return nil, false
	}
	s.LastSeen = now
	return s, true
}

// Delete drops the session and with it all in-memory chunks and history.
func (m *Manager) Delete(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

func (m *Manager) pruneLocked(now time.Time) {
	for token, s := range m.sessions {
		if now.Sub(s.LastSeen) > m.ttl {
			delete(m.sessions, token)
		}
	}
}
