package srs

import (
	"math"
	"testing"
	"time"

	"github.com/xxivani/langcat/pkg/models"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func assertEase(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("EaseFactor = %v, want %v", got, want)
	}
}

func TestNewState(t *testing.T) {
	st := NewState("w9", Config{}, t0)
	if st.VocabularyID != "w9" {
		t.Errorf("VocabularyID = %q, want w9", st.VocabularyID)
	}
	assertEase(t, st.EaseFactor, 2.5)
	if st.IntervalDays != 0 || st.Repetitions != 0 {
		t.Errorf("IntervalDays, Repetitions = %d, %d, want 0, 0", st.IntervalDays, st.Repetitions)
	}
	if !st.LastReviewedAt.Equal(t0) || !st.NextReviewAt.Equal(t0) {
		t.Errorf("timestamps = %v, %v, want both %v", st.LastReviewedAt, st.NextReviewAt, t0)
	}
	if !st.Due(t0) {
		t.Error("fresh state should be due immediately")
	}
}

func TestNewStateCustomInitialEase(t *testing.T) {
	st := NewState("w1", Config{InitialEase: 2.0}, t0)
	assertEase(t, st.EaseFactor, 2.0)
}

func TestAdvancePassLadderFromFresh(t *testing.T) {
	// Four consecutive Good ratings from a fresh state. Quality 4 leaves the
	// ease untouched (the delta is exactly zero), so the ladder reads
	// 1, 6, round(6×2.5)=15, round(15×2.5)=38.
	state := NewState("w1", Config{}, t0)
	wantIntervals := []int{1, 6, 15, 38}

	now := t0
	for i, want := range wantIntervals {
		now = now.AddDate(0, 0, state.IntervalDays)
		state = Advance(state, QualityGood, Config{}, now)

		if state.IntervalDays != want {
			t.Errorf("pass %d: IntervalDays = %d, want %d", i+1, state.IntervalDays, want)
		}
		if state.Repetitions != i+1 {
			t.Errorf("pass %d: Repetitions = %d, want %d", i+1, state.Repetitions, i+1)
		}
		assertEase(t, state.EaseFactor, 2.5)
		if !state.LastReviewedAt.Equal(now) {
			t.Errorf("pass %d: LastReviewedAt = %v, want %v", i+1, state.LastReviewedAt, now)
		}
		if want := now.AddDate(0, 0, want); !state.NextReviewAt.Equal(want) {
			t.Errorf("pass %d: NextReviewAt = %v, want %v", i+1, state.NextReviewAt, want)
		}
	}
}

func TestAdvanceLapseResetsLadder(t *testing.T) {
	// A mature item failed with quality 1: streak and interval reset, the
	// ease drops by 0.54 and survives above the floor.
	state := models.ReviewState{
		VocabularyID: "w1",
		EaseFactor:   2.6,
		IntervalDays: 15,
		Repetitions:  3,
	}
	got := Advance(state, QualityWrong, Config{}, t0)

	if got.Repetitions != 0 {
		t.Errorf("Repetitions = %d, want 0", got.Repetitions)
	}
	if got.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", got.IntervalDays)
	}
	assertEase(t, got.EaseFactor, 2.06)
	if want := t0.AddDate(0, 0, 1); !got.NextReviewAt.Equal(want) {
		t.Errorf("NextReviewAt = %v, want %v", got.NextReviewAt, want)
	}
}

func TestAdvanceEaseDelta(t *testing.T) {
	tests := []struct {
		quality Quality
		want    float64
	}{
		{QualityEasy, 2.6},           // +0.10
		{QualityGood, 2.5},           // ±0
		{QualityHard, 2.36},          // −0.14
		{QualityWrongFamiliar, 2.18}, // −0.32
		{QualityWrong, 1.96},         // −0.54
		{QualityBlackout, 1.7},       // −0.80
	}
	for _, tt := range tests {
		t.Run(tt.quality.String(), func(t *testing.T) {
			got := Advance(NewState("w1", Config{}, t0), tt.quality, Config{}, t0)
			assertEase(t, got.EaseFactor, tt.want)
		})
	}
}

func TestAdvanceEaseFloor(t *testing.T) {
	state := models.ReviewState{VocabularyID: "w1", EaseFactor: 1.35}
	got := Advance(state, QualityBlackout, Config{}, t0)
	assertEase(t, got.EaseFactor, 1.3)
}

func TestAdvanceLapseKeepsEarnedEase(t *testing.T) {
	state := models.ReviewState{
		VocabularyID: "w1",
		EaseFactor:   3.0,
		IntervalDays: 40,
		Repetitions:  6,
	}
	got := Advance(state, QualityBlackout, Config{}, t0)

	assertEase(t, got.EaseFactor, 2.2)
	if got.IntervalDays != 1 || got.Repetitions != 0 {
		t.Errorf("IntervalDays, Repetitions = %d, %d, want 1, 0", got.IntervalDays, got.Repetitions)
	}
}

func TestAdvanceRoundsHalfAwayFromZero(t *testing.T) {
	// 3 × 1.5 = 4.5 exactly; nearest-ties-away gives 5, not 4.
	state := models.ReviewState{
		VocabularyID: "w1",
		EaseFactor:   1.5,
		IntervalDays: 3,
		Repetitions:  2,
	}
	got := Advance(state, QualityGood, Config{}, t0)
	if got.IntervalDays != 5 {
		t.Errorf("IntervalDays = %d, want 5", got.IntervalDays)
	}
}

func TestAdvanceIntervalCap(t *testing.T) {
	state := models.ReviewState{
		VocabularyID: "w1",
		EaseFactor:   2.5,
		IntervalDays: 20,
		Repetitions:  2,
	}
	got := Advance(state, QualityEasy, Config{MaxIntervalDays: 30}, t0)
	if got.IntervalDays != 30 {
		t.Errorf("IntervalDays = %d, want capped at 30", got.IntervalDays)
	}
}

func TestAdvanceHesitantPassStillClimbs(t *testing.T) {
	// Quality 3 is a pass: the streak advances even though the ease shrinks.
	state := models.ReviewState{
		VocabularyID: "w1",
		EaseFactor:   2.5,
		IntervalDays: 6,
		Repetitions:  2,
	}
	got := Advance(state, QualityHard, Config{}, t0)

	if got.Repetitions != 3 {
		t.Errorf("Repetitions = %d, want 3", got.Repetitions)
	}
	// round(6 × 2.36) = round(14.16) = 14
	if got.IntervalDays != 14 {
		t.Errorf("IntervalDays = %d, want 14", got.IntervalDays)
	}
}
