package core

import "errors"

// Sentinel errors for core operations.
var (
	// ErrSessionNotFound is returned by operations that target a session id
	// absent from the session list.
	ErrSessionNotFound = errors.New("session not found")
)
