package session

import (
	"context"
	"sync"
)

var _ CredentialStore = &MemoryCredentialStore{}

// MemoryCredentialStore keeps the session in process memory. It satisfies the
// CredentialStore contract for tests and for ephemeral clients that should
// not outlive the process.
type MemoryCredentialStore struct {
	mu      sync.RWMutex
	session *Session
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (s *MemoryCredentialStore) Save(_ context.Context, session *Session) {
	if session == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.session = &copied
}

func (s *MemoryCredentialStore) Load(_ context.Context) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

func (s *MemoryCredentialStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}
