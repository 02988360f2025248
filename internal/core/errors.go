package core

import "errors"

var (
	// ErrInvalidShape is returned for shapes with fewer than two vertices
	ErrInvalidShape = errors.New("invalid shape")
	// ErrInvalidBounds is returned for bounds whose min exceeds max
	ErrInvalidBounds = errors.New("invalid bounds")

	ErrEntityNotFound  = errors.New("entity not found")
	ErrDuplicateEntity = errors.New("entity already exists")

	// ErrInvariantViolation reports structural corruption found by a debug check
	ErrInvariantViolation = errors.New("invariant violation")

	ErrUnknownBroadphase = errors.New("unknown broadphase kind")
	ErrInvalidConfig     = errors.New("invalid config")
)
