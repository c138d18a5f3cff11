package domain

import "errors"

// ErrSessionNotFound is returned when a sandbox session ID cannot be found
// in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrModelUnavailable wraps failures of the language model collaborator.
var ErrModelUnavailable = errors.New("model unavailable")
