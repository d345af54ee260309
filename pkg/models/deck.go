package models

import "time"

// Deck is a user-defined collection of words. ShareCode is a short public
// identifier handed out instead of the primary key.
type Deck struct {
	ID        string    `json:"id" db:"id"`
	LearnerID string    `json:"learner_id" db:"learner_id"`
	Name      string    `json:"name" db:"name"`
	ShareCode string    `json:"share_code" db:"share_code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
