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

// LearnerRepository handles database operations for learner accounts.
type LearnerRepository struct {
	db *DB
}

// NewLearnerRepository creates a new repository instance.
func NewLearnerRepository(db *DB) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// GetByID returns a learner by ID.
func (r *LearnerRepository) GetByID(ctx context.Context, id string) (*models.Learner, error) {
	var learner models.Learner
	err := r.db.GetContext(ctx, &learner, "SELECT * FROM learners WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	return &learner, nil
}

// GetByChatID returns the learner linked to a Telegram chat.
func (r *LearnerRepository) GetByChatID(ctx context.Context, chatID int64) (*models.Learner, error) {
	var learner models.Learner
	err := r.db.GetContext(ctx, &learner, "SELECT * FROM learners WHERE chat_id = $1", chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner by chat: %w", err)
	}
	return &learner, nil
}

// Create inserts a new learner, filling ID, timestamps and preference
// defaults when unset.
func (r *LearnerRepository) Create(ctx context.Context, learner *models.Learner) error {
	if learner.ID == "" {
		learner.ID = uuid.NewString()
	}
	if learner.NotificationHour == 0 {
		learner.NotificationHour = 9
	}
	if learner.WordsPerDay == 0 {
		learner.WordsPerDay = 10
	}
	now := time.Now().UTC()
	learner.CreatedAt = now
	learner.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO learners (
			id, display_name, chat_id, notification_enabled,
			notification_hour, words_per_day, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		learner.ID,
		learner.DisplayName,
		learner.ChatID,
		learner.NotificationEnabled,
		learner.NotificationHour,
		learner.WordsPerDay,
		learner.CreatedAt,
		learner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create learner: %w", err)
	}
	return nil
}

// Update modifies an existing learner.
func (r *LearnerRepository) Update(ctx context.Context, learner *models.Learner) error {
	learner.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE learners SET
			display_name = $1,
			chat_id = $2,
			notification_enabled = $3,
			notification_hour = $4,
			words_per_day = $5,
			updated_at = $6
		WHERE id = $7`,
		learner.DisplayName,
		learner.ChatID,
		learner.NotificationEnabled,
		learner.NotificationHour,
		learner.WordsPerDay,
		learner.UpdatedAt,
		learner.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update learner: %w", err)
	}
	return nil
}

// GetNotifiable returns learners who enabled reminders and linked a chat.
func (r *LearnerRepository) GetNotifiable(ctx context.Context) ([]models.Learner, error) {
	var learners []models.Learner
	err := r.db.SelectContext(ctx, &learners,
		"SELECT * FROM learners WHERE notification_enabled = $1 AND chat_id <> 0", true)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifiable learners: %w", err)
	}
	return learners, nil
}
