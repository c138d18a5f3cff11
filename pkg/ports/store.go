package ports

import "context"

// Session is the serialized execution context the isolated-interpreter
// backend carries between calls: the replayable snapshot plus metadata such
// as the packages imported so far.
type Session struct {
	Snapshot string   `json:"snapshot"`
	Packages []string `json:"packages"`
}

// SessionStore persists sandbox sessions. This allows the isolated backend
// to survive process restarts when backed by Redis, or to stay in memory
// for CLI runs.
type SessionStore interface {
	// Save persists the session for a given ID.
	Save(ctx context.Context, id string, s *Session) error

	// Load retrieves the session for a given ID. Returns
	// domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, id string) (*Session, error)

	// Delete removes the session.
	Delete(ctx context.Context, id string) error
}
