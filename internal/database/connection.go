package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a catalog row does not exist.
var ErrNotFound = errors.New("database: not found")

// Config holds connection settings for the relational store.
type Config struct {
	Driver string // "postgres" or "sqlite"
	DSN    string // postgres URL, or sqlite file path / ":memory:"
}

// DB wraps the sqlx handle shared by the repositories.
type DB struct {
	*sqlx.DB
}

// Connect opens the configured database and bootstraps the schema.
func Connect(cfg Config) (*DB, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := sqlx.Connect("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		return bootstrap(db)

	case "sqlite", "sqlite3":
		if dir := filepath.Dir(cfg.DSN); cfg.DSN != ":memory:" && !strings.HasPrefix(cfg.DSN, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err := sqlx.Connect("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		return bootstrap(db)

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

func bootstrap(db *sqlx.DB) (*DB, error) {
	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{DB: db}, nil
}

// initializeSchema creates the tables if they don't exist. The DDL is written
// to the dialect subset postgres and sqlite share; all ids and timestamps are
// generated in Go, so no column needs a database-side default.
func initializeSchema(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS levels (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS lessons (
			id TEXT PRIMARY KEY,
			level_id TEXT NOT NULL REFERENCES levels(id),
			title TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			UNIQUE(level_id, title)
		)`,
		`CREATE TABLE IF NOT EXISTS words (
			id TEXT PRIMARY KEY,
			lesson_id TEXT REFERENCES lessons(id),
			term TEXT NOT NULL,
			translation TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			pronunciation TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE(term, lesson_id)
		)`,
		`CREATE TABLE IF NOT EXISTS learners (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			chat_id BIGINT NOT NULL DEFAULT 0,
			notification_enabled BOOLEAN NOT NULL DEFAULT true,
			notification_hour INTEGER NOT NULL DEFAULT 9,
			words_per_day INTEGER NOT NULL DEFAULT 10,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS decks (
			id TEXT PRIMARY KEY,
			learner_id TEXT NOT NULL REFERENCES learners(id),
			name TEXT NOT NULL,
			share_code TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE(learner_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS deck_words (
			deck_id TEXT NOT NULL REFERENCES decks(id),
			word_id TEXT NOT NULL REFERENCES words(id),
			added_at TIMESTAMP NOT NULL,
			PRIMARY KEY (deck_id, word_id)
		)`,
		`CREATE TABLE IF NOT EXISTS review_states (
			learner_id TEXT NOT NULL,
			vocabulary_id TEXT NOT NULL,
			ease_factor DOUBLE PRECISION NOT NULL,
			interval_days INTEGER NOT NULL,
			repetitions INTEGER NOT NULL,
			last_reviewed_at TIMESTAMP NOT NULL,
			next_review_at TIMESTAMP NOT NULL,
			PRIMARY KEY (learner_id, vocabulary_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_review_states_due
			ON review_states (learner_id, next_review_at)`,
		`CREATE INDEX IF NOT EXISTS idx_words_lesson ON words (lesson_id)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
