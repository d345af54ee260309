package srs

import "fmt"

// Quality is the learner's 0-5 self-rating of recall for a reviewed item.
type Quality int

const (
	QualityBlackout      Quality = 0 // Complete blackout, unable to recall.
	QualityWrong         Quality = 1 // Incorrect, but remembered upon seeing the answer.
	QualityWrongFamiliar Quality = 2 // Incorrect, but the answer felt familiar.
	QualityHard          Quality = 3 // Correct with significant effort.
	QualityGood          Quality = 4 // Correct after some hesitation.
	QualityEasy          Quality = 5 // Perfect recall with no hesitation.
)

var qualityNames = [...]string{
	QualityBlackout:      "Blackout",
	QualityWrong:         "Wrong",
	QualityWrongFamiliar: "WrongFamiliar",
	QualityHard:          "Hard",
	QualityGood:          "Good",
	QualityEasy:          "Easy",
}

// IsValid reports whether q is on the 0-5 scale.
func (q Quality) IsValid() bool {
	return q >= QualityBlackout && q <= QualityEasy
}

// Passing reports whether q counts as a successful review. Anything below
// QualityHard is a lapse and restarts the interval ladder.
func (q Quality) Passing() bool {
	return q >= QualityHard
}

// String returns the name of the quality ("Blackout" through "Easy").
// For out-of-range values it returns "Quality(n)".
func (q Quality) String() string {
	if q.IsValid() {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}
