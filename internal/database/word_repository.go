package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xxivani/langcat/pkg/models"
)

// WordRepository handles database operations for vocabulary words.
type WordRepository struct {
	db *DB
}

// NewWordRepository creates a new repository instance.
func NewWordRepository(db *DB) *WordRepository {
	return &WordRepository{db: db}
}

// GetByID returns a word by ID.
func (r *WordRepository) GetByID(ctx context.Context, id string) (*models.Word, error) {
	var word models.Word
	err := r.db.GetContext(ctx, &word, "SELECT * FROM words WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	return &word, nil
}

// GetByIDs returns the words that exist among the given ids.
func (r *WordRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM words WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build words query: %w", err)
	}
	var words []models.Word
	if err := r.db.SelectContext(ctx, &words, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	return words, nil
}

// GetByLesson returns the words of one lesson, alphabetically.
func (r *WordRepository) GetByLesson(ctx context.Context, lessonID string) ([]models.Word, error) {
	var words []models.Word
	err := r.db.SelectContext(ctx, &words,
		"SELECT * FROM words WHERE lesson_id = $1 ORDER BY term", lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson words: %w", err)
	}
	return words, nil
}

// GetByTermAndLesson returns the word with the given term inside a lesson,
// or ErrNotFound. The importer uses it to dedupe re-imports.
func (r *WordRepository) GetByTermAndLesson(ctx context.Context, term, lessonID string) (*models.Word, error) {
	var word models.Word
	err := r.db.GetContext(ctx, &word,
		"SELECT * FROM words WHERE term = $1 AND lesson_id = $2", term, lessonID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word by term: %w", err)
	}
	return &word, nil
}

// Create inserts a new word, filling ID and timestamps when unset.
func (r *WordRepository) Create(ctx context.Context, word *models.Word) error {
	if word.ID == "" {
		word.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	word.CreatedAt = now
	word.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO words (id, lesson_id, term, translation, notes, pronunciation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		word.ID,
		word.LessonID,
		word.Term,
		word.Translation,
		word.Notes,
		word.Pronunciation,
		word.CreatedAt,
		word.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create word: %w", err)
	}
	return nil
}

// Update modifies an existing word.
func (r *WordRepository) Update(ctx context.Context, word *models.Word) error {
	word.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE words SET
			term = $1,
			translation = $2,
			notes = $3,
			pronunciation = $4,
			updated_at = $5
		WHERE id = $6`,
		word.Term,
		word.Translation,
		word.Notes,
		word.Pronunciation,
		word.UpdatedAt,
		word.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update word: %w", err)
	}
	return nil
}
