package progress

import (
	"context"
	"math"
	"time"

	"github.com/xxivani/langcat/internal/srs"
	"github.com/xxivani/langcat/pkg/models"
)

// Accuracy is the share of attempted cards currently in a passing streak,
// as a rounded percentage. A card counts as attempted once it has been
// rated at least once and as succeeding while its streak is unbroken.
// No attempts means 0.
func Accuracy(states []models.ReviewState) int {
	var attempted, succeeding int
	for _, st := range states {
		if !st.Attempted() {
			continue
		}
		attempted++
		if st.Repetitions >= 1 {
			succeeding++
		}
	}
	if attempted == 0 {
		return 0
	}
	return int(math.Round(100 * float64(succeeding) / float64(attempted)))
}

// Summary aggregates the learner's whole review set into one snapshot.
func (s *Service) Summary(ctx context.Context, learnerID string, now time.Time) (*models.LearnerSummary, error) {
	states, err := s.sched.AllStates(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	summary := &models.LearnerSummary{
		TotalTracked:    len(states),
		AccuracyPercent: Accuracy(states),
	}
	var easeSum float64
	for _, st := range states {
		easeSum += st.EaseFactor
		if st.Due(now) {
			summary.DueNow++
		}
		switch srs.StageOf(st) {
		case srs.StageMature:
			summary.Mature++
		case srs.StageYoung:
			summary.Young++
		default:
			summary.Learning++
		}
	}
	if len(states) == 0 {
		summary.AverageEase = srs.DefaultInitialEase
	} else {
		summary.AverageEase = easeSum / float64(len(states))
	}
	return summary, nil
}
