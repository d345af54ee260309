package srs

import (
	"math"
	"time"

	"github.com/xxivani/langcat/pkg/models"
)

// Default scheduling parameters.
const (
	DefaultInitialEase     = 2.5
	DefaultMinEase         = 1.3
	DefaultMaxIntervalDays = 36500
)

// Config holds the tunable parameters of the SM-2 transition.
// Zero values produce the defaults above; the pass threshold (quality 3) is
// part of the algorithm and not configurable.
type Config struct {
	InitialEase     float64 // ease assigned at initialization; zero → 2.5
	MinEase         float64 // floor the ease never drops below; zero → 1.3
	MaxIntervalDays int     // cap on computed intervals; zero → 36500 (~100 years)
}

func (c Config) withDefaults() Config {
	if c.InitialEase == 0 {
		c.InitialEase = DefaultInitialEase
	}
	if c.MinEase == 0 {
		c.MinEase = DefaultMinEase
	}
	if c.MaxIntervalDays == 0 {
		c.MaxIntervalDays = DefaultMaxIntervalDays
	}
	return c
}

// NewState returns the state a freshly tracked item starts from: default
// ease, no interval, no repetitions, due immediately.
func NewState(itemID string, cfg Config, now time.Time) models.ReviewState {
	cfg = cfg.withDefaults()
	return models.ReviewState{
		VocabularyID:   itemID,
		EaseFactor:     cfg.InitialEase,
		IntervalDays:   0,
		Repetitions:    0,
		LastReviewedAt: now,
		NextReviewAt:   now,
	}
}

// Advance applies one SM-2 transition and returns the updated state. The
// input is not mutated, and quality must already be validated.
//
// The ease moves by 0.1 − (5−q)·(0.08 + (5−q)·0.02), clamped at cfg.MinEase.
// A failing quality (< 3) resets the repetition streak and schedules the item
// one day out, keeping the adjusted ease. A pass walks the interval ladder:
// 1 day, then 6, then round(interval × ease) with ties away from zero.
func Advance(state models.ReviewState, quality Quality, cfg Config, now time.Time) models.ReviewState {
	cfg = cfg.withDefaults()

	q := float64(quality)
	ease := state.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ease < cfg.MinEase {
		ease = cfg.MinEase
	}
	state.EaseFactor = ease

	if quality.Passing() {
		state.Repetitions++
		switch state.Repetitions {
		case 1:
			state.IntervalDays = 1
		case 2:
			state.IntervalDays = 6
		default:
			state.IntervalDays = int(math.Round(float64(state.IntervalDays) * ease))
		}
		if state.IntervalDays > cfg.MaxIntervalDays {
			state.IntervalDays = cfg.MaxIntervalDays
		}
	} else {
		state.Repetitions = 0
		state.IntervalDays = 1
	}

	state.LastReviewedAt = now
	state.NextReviewAt = now.AddDate(0, 0, state.IntervalDays)
	return state
}
