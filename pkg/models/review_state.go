package models

import "time"

// ReviewState is the spaced-repetition record for one (learner, vocabulary
// item) pair. Exactly one exists per pair once the item enters the learner's
// active set; it is mutated only by rating a review.
//
// The json tags are the on-device blob format (camelCase, ISO-8601
// timestamps); the db tags are the column names of the remote store. Both
// backends persist the same six fields.
type ReviewState struct {
	LearnerID      string    `json:"-" db:"learner_id"`
	VocabularyID   string    `json:"itemId" db:"vocabulary_id"`
	EaseFactor     float64   `json:"easeFactor" db:"ease_factor"`
	IntervalDays   int       `json:"intervalDays" db:"interval_days"`
	Repetitions    int       `json:"repetitions" db:"repetitions"`
	LastReviewedAt time.Time `json:"lastReviewedAt" db:"last_reviewed_at"`
	NextReviewAt   time.Time `json:"nextReviewAt" db:"next_review_at"`
}

// Due reports whether the item is due for review at the given time.
func (s ReviewState) Due(now time.Time) bool {
	return !s.NextReviewAt.After(now)
}

// Attempted reports whether the item has been rated at least once since it
// was initialized. A freshly initialized state has a zero-day interval; any
// rating sets the interval to one day or more.
func (s ReviewState) Attempted() bool {
	return s.IntervalDays > 0
}
