package srs

import (
	"context"

	"github.com/xxivani/langcat/pkg/models"
)

// Store is the persistence contract the scheduler runs over. The relational
// backend and the local file backend both implement it; the scheduler never
// knows which one it was given.
type Store interface {
	// GetState returns the review state for one (learner, item) pair, or
	// ErrStateNotFound when the pair was never initialized.
	GetState(ctx context.Context, learnerID, itemID string) (models.ReviewState, error)

	// GetStatesForItems returns the states that exist among the given item
	// ids. Items without state are simply absent from the result.
	GetStatesForItems(ctx context.Context, learnerID string, itemIDs []string) ([]models.ReviewState, error)

	// GetAllStates returns every review state of the learner.
	GetAllStates(ctx context.Context, learnerID string) ([]models.ReviewState, error)

	// UpsertState writes one state, last-write-wins per (learner, item).
	// The write is all-or-nothing: a failed upsert leaves the prior state.
	UpsertState(ctx context.Context, learnerID string, state models.ReviewState) error

	// InsertStatesIfAbsent creates the given states, skipping every
	// (learner, item) pair that already has one. Must be race-safe against
	// concurrent inserts and upserts of the same pairs.
	InsertStatesIfAbsent(ctx context.Context, learnerID string, states []models.ReviewState) error
}
