package store

import (
	"context"
	"sync"

	"scrumlog/internal/model"

	"gorm.io/gorm"
)

// Session bundles one caller's stores over a shared backend. It is the
// explicit per-user state boundary: nothing here is package-global.
type Session struct {
	UserID   int
	Worklogs *WorklogStore
	Scrums   *ScrumStore
}

// NewSession builds a session over the given backend. Callers with an
// identity get the gorm backend via Manager; anonymous callers construct
// one directly over NewMemoryBackend.
func NewSession(be Backend, userID int) *Session {
	return &Session{
		UserID:   userID,
		Worklogs: NewWorklogStore(be),
		Scrums:   NewScrumStore(be),
	}
}

// Manager owns the per-user sessions of the server process.
type Manager struct {
	db       *gorm.DB
	mu       sync.Mutex
	sessions map[int]*Session
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db, sessions: make(map[int]*Session)}
}

// Session returns the caller's session, creating it over a gorm backend on
// first use.
func (m *Manager) Session(userID int) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess
	}
	sess := NewSession(NewGormBackend(m.db, userID), userID)
	m.sessions[userID] = sess
	return sess
}

// Close drops the caller's session and its caches.
func (m *Manager) Close(userID int) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}

// SharedScrum resolves a share token without any session: the token is the
// only authorized key for anonymous reads.
func (m *Manager) SharedScrum(ctx context.Context, shareID string) (*model.DailyScrum, error) {
	return NewGormBackend(m.db, 0).ScrumByShareID(ctx, shareID)
}
