package srs

import (
	"testing"

	"github.com/xxivani/langcat/pkg/models"
)

func TestQualityIsValid(t *testing.T) {
	for q := QualityBlackout; q <= QualityEasy; q++ {
		if !q.IsValid() {
			t.Errorf("Quality(%d).IsValid() = false, want true", int(q))
		}
	}
	for _, q := range []Quality{-1, 6, 42} {
		if q.IsValid() {
			t.Errorf("Quality(%d).IsValid() = true, want false", int(q))
		}
	}
}

func TestQualityPassing(t *testing.T) {
	tests := []struct {
		quality Quality
		want    bool
	}{
		{QualityBlackout, false},
		{QualityWrong, false},
		{QualityWrongFamiliar, false},
		{QualityHard, true},
		{QualityGood, true},
		{QualityEasy, true},
	}
	for _, tt := range tests {
		if got := tt.quality.Passing(); got != tt.want {
			t.Errorf("%v.Passing() = %v, want %v", tt.quality, got, tt.want)
		}
	}
}

func TestQualityString(t *testing.T) {
	if got := QualityGood.String(); got != "Good" {
		t.Errorf("String() = %q, want Good", got)
	}
	if got := Quality(9).String(); got != "Quality(9)" {
		t.Errorf("String() = %q, want Quality(9)", got)
	}
}

func TestStageOf(t *testing.T) {
	tests := []struct {
		repetitions int
		want        Stage
	}{
		{0, StageLearning},
		{1, StageLearning},
		{2, StageYoung},
		{3, StageMature},
		{12, StageMature},
	}
	for _, tt := range tests {
		st := models.ReviewState{Repetitions: tt.repetitions}
		if got := StageOf(st); got != tt.want {
			t.Errorf("StageOf(repetitions=%d) = %v, want %v", tt.repetitions, got, tt.want)
		}
	}
}
