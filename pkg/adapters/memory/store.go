// Package memory provides an in-process SessionStore, the default for CLI
// runs where sandbox sessions do not need to outlive the process.
package memory

import (
	"context"
	"sync"

	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

// Store implements ports.SessionStore with a mutex-guarded map.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]ports.Session
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]ports.Session),
	}
}

// Save persists a copy of the session.
func (s *Store) Save(_ context.Context, id string, sess *ports.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	cp.Packages = append([]string(nil), sess.Packages...)
	s.sessions[id] = cp
	return nil
}

// Load retrieves a copy of the session.
func (s *Store) Load(_ context.Context, id string) (*ports.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := sess
	cp.Packages = append([]string(nil), sess.Packages...)
	return &cp, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
