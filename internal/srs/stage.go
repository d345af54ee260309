package srs

import (
	"fmt"

	"github.com/xxivani/langcat/pkg/models"
)

// Stage is a coarse view of how well an item is known, derived from the
// repetition streak. There is no terminal stage; review is perpetual.
type Stage int

const (
	StageNew      Stage = iota // no review state yet
	StageLearning              // repetitions 0 or 1
	StageYoung                 // repetitions 2
	StageMature                // repetitions 3 and up
)

var stageNames = [...]string{
	StageNew:      "New",
	StageLearning: "Learning",
	StageYoung:    "Young",
	StageMature:   "Mature",
}

func (s Stage) String() string {
	if s >= StageNew && s <= StageMature {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// StageOf maps a state's repetition streak onto the stage ladder. Items with
// no state at all are StageNew; callers hold no state to pass for those.
func StageOf(state models.ReviewState) Stage {
	switch {
	case state.Repetitions >= 3:
		return StageMature
	case state.Repetitions == 2:
		return StageYoung
	default:
		return StageLearning
	}
}
