package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/xxivani/langcat/internal/srs"
	"github.com/xxivani/langcat/pkg/models"
)

// QueueCard is one entry of a review queue: the word to show plus its
// scheduling state. Fresh cards carry the zero state and StageNew.
type QueueCard struct {
	Word  models.Word        `json:"word"`
	State models.ReviewState `json:"state"`
	Stage string             `json:"stage"`
}

// ReviewQueue is the work a collection holds for a learner at one moment.
// Due cards come first, hardest first; new cards keep catalog order.
type ReviewQueue struct {
	Collection models.Collection `json:"collection"`
	Due        []QueueCard       `json:"due"`
	New        []QueueCard       `json:"new"`
}

// Total is the number of cards in the queue.
func (q *ReviewQueue) Total() int {
	return len(q.Due) + len(q.New)
}

// Queue builds the review queue of one collection. Tracked cards past their
// NextReviewAt land in Due ordered by srs.SortByPriority; words never
// initialized land in New. Tracked cards that are not due yet are omitted.
func (s *Service) Queue(ctx context.Context, learnerID string, col models.Collection, now time.Time) (*ReviewQueue, error) {
	words, err := s.catalog.Items(ctx, col)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(words))
	byID := make(map[string]models.Word, len(words))
	for i, w := range words {
		ids[i] = w.ID
		byID[w.ID] = w
	}

	states, err := s.sched.StatesFor(ctx, learnerID, ids)
	if err != nil {
		return nil, fmt.Errorf("queue for %s: %w", col, err)
	}
	tracked := make(map[string]struct{}, len(states))
	for _, st := range states {
		tracked[st.VocabularyID] = struct{}{}
	}

	due := states[:0]
	for _, st := range states {
		if st.Due(now) {
			due = append(due, st)
		}
	}
	srs.SortByPriority(due)

	queue := &ReviewQueue{Collection: col}
	for _, st := range due {
		queue.Due = append(queue.Due, QueueCard{
			Word:  byID[st.VocabularyID],
			State: st,
			Stage: srs.StageOf(st).String(),
		})
	}
	for _, w := range words {
		if _, ok := tracked[w.ID]; ok {
			continue
		}
		queue.New = append(queue.New, QueueCard{
			Word:  w,
			Stage: srs.StageNew.String(),
		})
	}
	return queue, nil
}

// DueCounts reports, per collection the learner can review, how many cards
// are due and how many were never started. Lessons of every level are
// listed; decks are limited to the learner's own.
func (s *Service) DueCounts(ctx context.Context, learnerID string, now time.Time) ([]models.CollectionDueCount, error) {
	var counts []models.CollectionDueCount

	levels, err := s.catalog.Levels(ctx)
	if err != nil {
		return nil, err
	}
	for _, level := range levels {
		lessons, err := s.catalog.LessonsByLevel(ctx, level.ID)
		if err != nil {
			return nil, err
		}
		for _, lesson := range lessons {
			col := models.Collection{Kind: models.CollectionLesson, ID: lesson.ID}
			count, err := s.countCollection(ctx, learnerID, col, now)
			if err != nil {
				return nil, err
			}
			count.Title = fmt.Sprintf("%s · %s", level.Code, lesson.Title)
			counts = append(counts, count)
		}
	}

	decks, err := s.catalog.Decks(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	for _, deck := range decks {
		col := models.Collection{Kind: models.CollectionDeck, ID: deck.ID}
		count, err := s.countCollection(ctx, learnerID, col, now)
		if err != nil {
			return nil, err
		}
		count.Title = deck.Name
		counts = append(counts, count)
	}
	return counts, nil
}

func (s *Service) countCollection(ctx context.Context, learnerID string, col models.Collection, now time.Time) (models.CollectionDueCount, error) {
	ids, err := s.catalog.ItemIDs(ctx, col)
	if err != nil {
		return models.CollectionDueCount{}, err
	}
	states, err := s.sched.StatesFor(ctx, learnerID, ids)
	if err != nil {
		return models.CollectionDueCount{}, fmt.Errorf("count %s: %w", col, err)
	}

	count := models.CollectionDueCount{Collection: col, Total: len(ids)}
	for _, st := range states {
		if st.Due(now) {
			count.Due++
		}
	}
	count.New = len(ids) - len(states)
	return count, nil
}
