package domain

import "errors"

// Common domain errors
var (
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidTransition is returned when a requested status change is not
	// an edge of the entity's lifecycle. The entity is left untouched.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification is returned when a compare-and-set on status
	// lost the race: the row exists but no longer carries the status that was
	// read before the transition. Callers should re-read and reconsider.
	ErrConcurrentModification = errors.New("entity was modified concurrently")
)
