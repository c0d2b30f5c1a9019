package net

import (
	"sync"

	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// SessionStore tracks live sessions by identity.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[world.SessionID]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[world.SessionID]*Session, 32)}
}

func (st *SessionStore) Add(s *Session) {
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
}

func (st *SessionStore) Remove(id world.SessionID) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *SessionStore) Get(id world.SessionID) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// ForEach calls fn for every session. fn runs outside the store lock, so it
// may add or remove sessions.
func (st *SessionStore) ForEach(fn func(*Session)) {
	st.mu.RLock()
	list := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		list = append(list, s)
	}
	st.mu.RUnlock()

	for _, s := range list {
		fn(s)
	}
}
