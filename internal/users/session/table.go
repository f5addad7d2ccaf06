package session

import (
	"context"
	"sync"
)

// Table is the in-memory Store. Sessions are lost on restart.
type Table struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewTable() *Table {
	return &Table{sessions: make(map[string]Session)}
}

func (t *Table) Add(_ context.Context, userID, credential string) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	token := newToken()
	for _, taken := t.sessions[token]; taken; _, taken = t.sessions[token] {
		token = newToken()
	}

	s := Session{UserID: userID, UserToken: token, Credential: credential}
	t.sessions[token] = s
	return &s, nil
}

func (t *Table) Get(_ context.Context, userToken string) (*Session, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.sessions[userToken]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (t *Table) Remove(_ context.Context, userToken string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.sessions, userToken)
	return nil
}

func (t *Table) Reset(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sessions = make(map[string]Session)
	return nil
}

func (t *Table) Count(_ context.Context) (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.sessions), nil
}
