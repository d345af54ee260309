package srs

import "errors"

// Sentinel errors for the srs package.
// Use errors.Is to check: errors.Is(err, srs.ErrNotInitialized)
var (
	// ErrNotInitialized is returned by Rate for an item that has no review
	// state yet. Callers must Initialize first; this is a contract violation,
	// not a recoverable runtime condition.
	ErrNotInitialized = errors.New("srs: item not initialized")

	// ErrInvalidQuality rejects ratings outside the 0-5 scale before
	// anything is persisted.
	ErrInvalidQuality = errors.New("srs: quality out of range 0..5")

	// ErrStateNotFound is returned by Store implementations when no state
	// exists for a (learner, item) pair.
	ErrStateNotFound = errors.New("srs: review state not found")
)
