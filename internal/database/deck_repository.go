package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xxivani/langcat/pkg/models"
)

// DeckRepository handles database operations for user-defined decks and
// their word membership.
type DeckRepository struct {
	db *DB
}

// NewDeckRepository creates a new repository instance.
func NewDeckRepository(db *DB) *DeckRepository {
	return &DeckRepository{db: db}
}

// GetByID returns a deck by ID.
func (r *DeckRepository) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	var deck models.Deck
	err := r.db.GetContext(ctx, &deck, "SELECT * FROM decks WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}
	return &deck, nil
}

// GetByShareCode returns a deck by its public share code.
func (r *DeckRepository) GetByShareCode(ctx context.Context, code string) (*models.Deck, error) {
	var deck models.Deck
	err := r.db.GetContext(ctx, &deck, "SELECT * FROM decks WHERE share_code = $1", code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck by share code: %w", err)
	}
	return &deck, nil
}

// GetByLearner returns the learner's decks, newest first.
func (r *DeckRepository) GetByLearner(ctx context.Context, learnerID string) ([]models.Deck, error) {
	var decks []models.Deck
	err := r.db.SelectContext(ctx, &decks,
		"SELECT * FROM decks WHERE learner_id = $1 ORDER BY created_at DESC", learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get decks: %w", err)
	}
	return decks, nil
}

// Create inserts a new deck. The share code must already be set by the
// caller; ID and timestamps are filled when unset.
func (r *DeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	if deck.ID == "" {
		deck.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	deck.CreatedAt = now
	deck.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO decks (id, learner_id, name, share_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		deck.ID, deck.LearnerID, deck.Name, deck.ShareCode, deck.CreatedAt, deck.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}
	return nil
}

// Delete removes a deck and its word membership in one transaction.
func (r *DeckRepository) Delete(ctx context.Context, deckID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM deck_words WHERE deck_id = $1", deckID); err != nil {
		return fmt.Errorf("failed to delete deck words: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM decks WHERE id = $1", deckID); err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deck deletion: %w", err)
	}
	return nil
}

// AddWords adds the given words to the deck, ignoring ones already present.
func (r *DeckRepository) AddWords(ctx context.Context, deckID string, wordIDs []string, now time.Time) error {
	if len(wordIDs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, wordID := range wordIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO deck_words (deck_id, word_id, added_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (deck_id, word_id) DO NOTHING`,
			deckID, wordID, now.UTC())
		if err != nil {
			return fmt.Errorf("failed to add word to deck: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE decks SET updated_at = $1 WHERE id = $2", now.UTC(), deckID); err != nil {
		return fmt.Errorf("failed to touch deck: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deck words: %w", err)
	}
	return nil
}

// WordIDs returns the ids of all words in the deck.
func (r *DeckRepository) WordIDs(ctx context.Context, deckID string) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		"SELECT word_id FROM deck_words WHERE deck_id = $1 ORDER BY added_at", deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck word ids: %w", err)
	}
	return ids, nil
}

// Words returns the full word rows of the deck in the order they were added.
func (r *DeckRepository) Words(ctx context.Context, deckID string) ([]models.Word, error) {
	var words []models.Word
	err := r.db.SelectContext(ctx, &words, `
		SELECT w.* FROM words w
		JOIN deck_words dw ON dw.word_id = w.id
		WHERE dw.deck_id = $1
		ORDER BY dw.added_at`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck words: %w", err)
	}
	return words, nil
}
