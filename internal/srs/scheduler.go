package srs

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xxivani/langcat/pkg/models"
)

// lockStripes bounds the number of mutexes guarding per-item updates.
const lockStripes = 64

// Scheduler applies the SM-2 transition to stored review states and answers
// due-item queries. One instance serves all learners.
type Scheduler struct {
	store  Store
	cfg    Config
	logger *zap.Logger

	// locks serialize read-modify-write per (learner, item) so a rapid
	// double-tap on the same card cannot lose an update. Distinct pairs
	// hash to distinct stripes and proceed in parallel.
	locks [lockStripes]sync.Mutex
}

// NewScheduler builds a Scheduler over the given store. Zero-value config
// fields fall back to the package defaults; a nil logger disables logging.
func NewScheduler(store Store, cfg Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		store:  store,
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
}

func (s *Scheduler) lockFor(learnerID, itemID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(learnerID))
	h.Write([]byte{0})
	h.Write([]byte(itemID))
	return &s.locks[h.Sum32()%lockStripes]
}

// Initialize ensures a review state exists for every given item, creating
// missing ones as immediately due. Existing items are left untouched whatever
// now is; an empty set has no side effects.
func (s *Scheduler) Initialize(ctx context.Context, learnerID string, itemIDs []string, now time.Time) error {
	if len(itemIDs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(itemIDs))
	states := make([]models.ReviewState, 0, len(itemIDs))
	for _, id := range itemIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		st := NewState(id, s.cfg, now)
		st.LearnerID = learnerID
		states = append(states, st)
	}
	if err := s.store.InsertStatesIfAbsent(ctx, learnerID, states); err != nil {
		return fmt.Errorf("initialize review states: %w", err)
	}
	s.logger.Debug("initialized review states",
		zap.String("learner_id", learnerID),
		zap.Int("items", len(states)))
	return nil
}

// Rate applies one quality rating to an item and returns its updated state.
// The item must have been initialized first; rating an unknown item fails
// with ErrNotInitialized. An out-of-range quality fails with
// ErrInvalidQuality and nothing is persisted.
func (s *Scheduler) Rate(ctx context.Context, learnerID, itemID string, quality Quality, now time.Time) (models.ReviewState, error) {
	if !quality.IsValid() {
		return models.ReviewState{}, fmt.Errorf("%w: %d", ErrInvalidQuality, int(quality))
	}

	mu := s.lockFor(learnerID, itemID)
	mu.Lock()
	defer mu.Unlock()

	state, err := s.store.GetState(ctx, learnerID, itemID)
	if errors.Is(err, ErrStateNotFound) {
		return models.ReviewState{}, fmt.Errorf("%w: item %s", ErrNotInitialized, itemID)
	}
	if err != nil {
		return models.ReviewState{}, fmt.Errorf("load review state: %w", err)
	}

	updated := Advance(state, quality, s.cfg, now)
	if err := s.store.UpsertState(ctx, learnerID, updated); err != nil {
		return models.ReviewState{}, fmt.Errorf("save review state: %w", err)
	}

	s.logger.Debug("rated item",
		zap.String("learner_id", learnerID),
		zap.String("item_id", itemID),
		zap.Stringer("quality", quality),
		zap.Int("interval_days", updated.IntervalDays),
		zap.Float64("ease", updated.EaseFactor))
	return updated, nil
}

// DueItems returns the subset of candidates whose next review time has
// passed. Candidates with no state are not returned: those are "new", and
// callers classify them by diffing against the candidate set. An empty
// candidate set returns an empty result.
func (s *Scheduler) DueItems(ctx context.Context, learnerID string, candidateIDs []string, now time.Time) ([]string, error) {
	if len(candidateIDs) == 0 {
		return nil, nil
	}
	states, err := s.store.GetStatesForItems(ctx, learnerID, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("load review states: %w", err)
	}
	due := make([]string, 0, len(states))
	for _, st := range states {
		if st.Due(now) {
			due = append(due, st.VocabularyID)
		}
	}
	return due, nil
}

// State returns the review state for one item, or ErrStateNotFound.
func (s *Scheduler) State(ctx context.Context, learnerID, itemID string) (models.ReviewState, error) {
	return s.store.GetState(ctx, learnerID, itemID)
}

// StatesFor returns the states that exist among the given items.
func (s *Scheduler) StatesFor(ctx context.Context, learnerID string, itemIDs []string) ([]models.ReviewState, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	return s.store.GetStatesForItems(ctx, learnerID, itemIDs)
}

// AllStates returns every review state of the learner.
func (s *Scheduler) AllStates(ctx context.Context, learnerID string) ([]models.ReviewState, error) {
	return s.store.GetAllStates(ctx, learnerID)
}

// SortByPriority orders states hardest-first for review queues: items never
// passed yet, then lowest ease, then earliest next review time.
func SortByPriority(states []models.ReviewState) {
	sort.SliceStable(states, func(i, j int) bool {
		if (states[i].Repetitions == 0) != (states[j].Repetitions == 0) {
			return states[i].Repetitions == 0
		}
		if states[i].EaseFactor != states[j].EaseFactor {
			return states[i].EaseFactor < states[j].EaseFactor
		}
		return states[i].NextReviewAt.Before(states[j].NextReviewAt)
	})
}
