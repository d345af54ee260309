package models

import "time"

// Word is a learnable vocabulary item. The review scheduler treats words as
// opaque identifiers and never mutates them.
type Word struct {
	ID            string    `json:"id" db:"id"`
	LessonID      *string   `json:"lesson_id,omitempty" db:"lesson_id"`
	Term          string    `json:"term" db:"term"`
	Translation   string    `json:"translation" db:"translation"`
	Notes         string    `json:"notes,omitempty" db:"notes"`
	Pronunciation string    `json:"pronunciation,omitempty" db:"pronunciation"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
