// internal/pkg/session/memory_store.go
package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is the in-process fallback used when Redis is not configured
// or unreachable at startup. Expiry is lazy: an entry past its ExpiresAt
// reads as absent even before it is swept.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(ctx context.Context, subject string, roles []string, ttl time.Duration) (*Session, error) {
	if subject == "" {
		return nil, fmt.Errorf("session: missing subject")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session: ttl must be positive")
	}

	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := &Session{
		Token:     token,
		Subject:   subject,
		Roles:     roles,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()

	return s, nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	if s.Expired(m.now()) {
		delete(m.sessions, token)
		return nil, nil
	}

	cp := *s
	return &cp, nil
}

func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) DeleteAll(ctx context.Context, subject string) error {
	m.mu.Lock()
	for token, s := range m.sessions {
		if s.Subject == subject {
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()
	return nil
}
