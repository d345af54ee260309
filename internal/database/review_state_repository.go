package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/xxivani/langcat/internal/srs"
	"github.com/xxivani/langcat/pkg/models"
)

// ReviewStateRepository persists review states in the relational store.
// It implements srs.Store and additionally owns the bulk deletions the
// scheduler never performs (full progress reset, deck removal).
type ReviewStateRepository struct {
	db *DB
}

// NewReviewStateRepository creates a new repository instance.
func NewReviewStateRepository(db *DB) *ReviewStateRepository {
	return &ReviewStateRepository{db: db}
}

// GetState returns the state for one (learner, item) pair.
func (r *ReviewStateRepository) GetState(ctx context.Context, learnerID, itemID string) (models.ReviewState, error) {
	var state models.ReviewState
	err := r.db.GetContext(ctx, &state,
		"SELECT * FROM review_states WHERE learner_id = $1 AND vocabulary_id = $2",
		learnerID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReviewState{}, srs.ErrStateNotFound
	}
	if err != nil {
		return models.ReviewState{}, fmt.Errorf("failed to get review state: %w", err)
	}
	return state, nil
}

// GetStatesForItems returns the states that exist among the given item ids.
func (r *ReviewStateRepository) GetStatesForItems(ctx context.Context, learnerID string, itemIDs []string) ([]models.ReviewState, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		"SELECT * FROM review_states WHERE learner_id = ? AND vocabulary_id IN (?)",
		learnerID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build states query: %w", err)
	}
	var states []models.ReviewState
	if err := r.db.SelectContext(ctx, &states, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get review states: %w", err)
	}
	return states, nil
}

// GetAllStates returns every review state of the learner.
func (r *ReviewStateRepository) GetAllStates(ctx context.Context, learnerID string) ([]models.ReviewState, error) {
	var states []models.ReviewState
	err := r.db.SelectContext(ctx, &states,
		"SELECT * FROM review_states WHERE learner_id = $1 ORDER BY next_review_at",
		learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review states: %w", err)
	}
	return states, nil
}

// UpsertState writes one state, last-write-wins per (learner, item).
func (r *ReviewStateRepository) UpsertState(ctx context.Context, learnerID string, state models.ReviewState) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO review_states (
			learner_id, vocabulary_id, ease_factor, interval_days,
			repetitions, last_reviewed_at, next_review_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (learner_id, vocabulary_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			repetitions = EXCLUDED.repetitions,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			next_review_at = EXCLUDED.next_review_at`,
		learnerID,
		state.VocabularyID,
		state.EaseFactor,
		state.IntervalDays,
		state.Repetitions,
		state.LastReviewedAt.UTC(),
		state.NextReviewAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert review state: %w", err)
	}
	return nil
}

// InsertStatesIfAbsent creates the given states inside one transaction,
// skipping pairs that already exist. ON CONFLICT DO NOTHING makes the
// check-then-create race-safe against concurrent initializers.
func (r *ReviewStateRepository) InsertStatesIfAbsent(ctx context.Context, learnerID string, states []models.ReviewState) error {
	if len(states) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, state := range states {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO review_states (
				learner_id, vocabulary_id, ease_factor, interval_days,
				repetitions, last_reviewed_at, next_review_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (learner_id, vocabulary_id) DO NOTHING`,
			learnerID,
			state.VocabularyID,
			state.EaseFactor,
			state.IntervalDays,
			state.Repetitions,
			state.LastReviewedAt.UTC(),
			state.NextReviewAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert review state: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review states: %w", err)
	}
	return nil
}

// DeleteAllStates removes every review state of the learner (full progress
// reset).
func (r *ReviewStateRepository) DeleteAllStates(ctx context.Context, learnerID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM review_states WHERE learner_id = $1", learnerID)
	if err != nil {
		return fmt.Errorf("failed to delete review states: %w", err)
	}
	return nil
}

// DeleteStates removes the states for the given items (deck removal).
func (r *ReviewStateRepository) DeleteStates(ctx context.Context, learnerID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(
		"DELETE FROM review_states WHERE learner_id = ? AND vocabulary_id IN (?)",
		learnerID, itemIDs)
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete review states: %w", err)
	}
	return nil
}
