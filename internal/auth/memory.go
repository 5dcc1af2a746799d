package auth

import (
	"context"
	"strings"
	"sync"
)

// MemoryCredentialStore keeps credentials in memory. Used in tests and when
// the service runs without a database.
type MemoryCredentialStore struct {
	mu      sync.RWMutex
	byEmail map[string]Credential
}

// NewMemoryCredentialStore creates an empty in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{byEmail: make(map[string]Credential)}
}

func (s *MemoryCredentialStore) CreateCredential(_ context.Context, cred *Credential) error {
	key := strings.ToLower(cred.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[key]; exists {
		return ErrEmailTaken
	}
	s.byEmail[key] = *cred
	return nil
}

func (s *MemoryCredentialStore) FindCredentialByEmail(_ context.Context, email string) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	out := cred
	return &out, nil
}
