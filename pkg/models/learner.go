package models

import "time"

// Learner is an account tracked by the scheduler. ChatID is zero until the
// learner links a Telegram chat for reminders.
type Learner struct {
	ID                  string    `json:"id" db:"id"`
	DisplayName         string    `json:"display_name" db:"display_name"`
	ChatID              int64     `json:"-" db:"chat_id"`
	NotificationEnabled bool      `json:"notification_enabled" db:"notification_enabled"`
	NotificationHour    int       `json:"notification_hour" db:"notification_hour"`
	WordsPerDay         int       `json:"words_per_day" db:"words_per_day"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}
