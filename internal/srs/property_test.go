package srs

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/xxivani/langcat/pkg/models"
)

func genQuality() gopter.Gen {
	return gen.IntRange(0, 5).Map(func(v int) Quality { return Quality(v) })
}

func genQualityIn(lo, hi int) gopter.Gen {
	return gen.IntRange(lo, hi).Map(func(v int) Quality { return Quality(v) })
}

// genTrackedState generates states reachable through Initialize and Rate:
// fresh states carry a zero interval, rated ones at least a day.
func genTrackedState() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(1.3, 3.5),
		gen.IntRange(1, 400),
		gen.IntRange(0, 20),
	).Map(func(vals []interface{}) models.ReviewState {
		return models.ReviewState{
			VocabularyID:   "w1",
			EaseFactor:     vals[0].(float64),
			IntervalDays:   vals[1].(int),
			Repetitions:    vals[2].(int),
			LastReviewedAt: t0,
			NextReviewAt:   t0,
		}
	})
}

func TestAdvanceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ease never drops below the floor", prop.ForAll(
		func(qualities []Quality) bool {
			state := NewState("w1", Config{}, t0)
			now := t0
			for _, q := range qualities {
				now = now.Add(12 * time.Hour)
				state = Advance(state, q, Config{}, now)
				if state.EaseFactor < 1.3 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genQuality()),
	))

	properties.Property("a lapse always resets the ladder", prop.ForAll(
		func(state models.ReviewState, q Quality) bool {
			got := Advance(state, q, Config{}, t0)
			return got.Repetitions == 0 && got.IntervalDays == 1
		},
		genTrackedState(),
		genQualityIn(0, 2),
	))

	properties.Property("a pass always extends the streak", prop.ForAll(
		func(state models.ReviewState, q Quality) bool {
			got := Advance(state, q, Config{}, t0)
			return got.Repetitions == state.Repetitions+1 && got.IntervalDays >= 1
		},
		genTrackedState(),
		genQualityIn(3, 5),
	))

	properties.Property("next review is never before the rating time", prop.ForAll(
		func(state models.ReviewState, q Quality) bool {
			got := Advance(state, q, Config{}, t0)
			return !got.NextReviewAt.Before(t0) && got.LastReviewedAt.Equal(t0)
		},
		genTrackedState(),
		genQuality(),
	))

	properties.TestingRun(t)
}
