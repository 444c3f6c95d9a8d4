package service

import "errors"

var (
	// ErrSessionNotFound is returned for unknown session IDs by every layer
	ErrSessionNotFound = errors.New("session not found")
	// ErrConfigNotFound is returned when a preset name does not resolve
	ErrConfigNotFound = errors.New("configuration not found")
	// ErrInvalidAction rejects malformed action requests before they reach the engine
	ErrInvalidAction = errors.New("invalid action")
)
