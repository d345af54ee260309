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

// LessonRepository handles database operations for curriculum levels and
// their lessons.
type LessonRepository struct {
	db *DB
}

// NewLessonRepository creates a new repository instance.
func NewLessonRepository(db *DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// Levels returns all curriculum levels in display order.
func (r *LessonRepository) Levels(ctx context.Context) ([]models.Level, error) {
	var levels []models.Level
	err := r.db.SelectContext(ctx, &levels, "SELECT * FROM levels ORDER BY position, code")
	if err != nil {
		return nil, fmt.Errorf("failed to get levels: %w", err)
	}
	return levels, nil
}

// LevelByID returns a level by ID.
func (r *LessonRepository) LevelByID(ctx context.Context, id string) (*models.Level, error) {
	var level models.Level
	err := r.db.GetContext(ctx, &level, "SELECT * FROM levels WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	return &level, nil
}

// LevelByCode returns a level by its CEFR code ("A1", "B2", ...).
func (r *LessonRepository) LevelByCode(ctx context.Context, code string) (*models.Level, error) {
	var level models.Level
	err := r.db.GetContext(ctx, &level, "SELECT * FROM levels WHERE code = $1", code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get level by code: %w", err)
	}
	return &level, nil
}

// CreateLevel inserts a new level, filling ID and created_at when unset.
func (r *LessonRepository) CreateLevel(ctx context.Context, level *models.Level) error {
	if level.ID == "" {
		level.ID = uuid.NewString()
	}
	level.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO levels (id, code, title, position, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		level.ID, level.Code, level.Title, level.Position, level.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create level: %w", err)
	}
	return nil
}

// LessonsByLevel returns the lessons of one level in display order.
func (r *LessonRepository) LessonsByLevel(ctx context.Context, levelID string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.SelectContext(ctx, &lessons,
		"SELECT * FROM lessons WHERE level_id = $1 ORDER BY position, title", levelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}
	return lessons, nil
}

// LessonByID returns a lesson by ID.
func (r *LessonRepository) LessonByID(ctx context.Context, id string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.GetContext(ctx, &lesson, "SELECT * FROM lessons WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return &lesson, nil
}

// LessonByTitle returns the lesson with the given title inside a level,
// or ErrNotFound.
func (r *LessonRepository) LessonByTitle(ctx context.Context, levelID, title string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.GetContext(ctx, &lesson,
		"SELECT * FROM lessons WHERE level_id = $1 AND title = $2", levelID, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by title: %w", err)
	}
	return &lesson, nil
}

// CreateLesson inserts a new lesson, filling ID and created_at when unset.
func (r *LessonRepository) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	lesson.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lessons (id, level_id, title, position, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		lesson.ID, lesson.LevelID, lesson.Title, lesson.Position, lesson.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	return nil
}
