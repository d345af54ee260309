package models

import "time"

// Level is a curriculum tier (A1, A2, ...). Levels order lessons; lessons
// group words.
type Level struct {
	ID        string    `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Title     string    `json:"title" db:"title"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Lesson is one unit of curriculum inside a level.
type Lesson struct {
	ID        string    `json:"id" db:"id"`
	LevelID   string    `json:"level_id" db:"level_id"`
	Title     string    `json:"title" db:"title"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
