// Package progress composes the scheduler, the catalog and the storage
// backends into the flows the app surfaces: starting collections, rating
// cards, building review queues, counting due work, and the bulk lifecycle
// operations (full reset, deck removal).
package progress

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xxivani/langcat/internal/catalog"
	"github.com/xxivani/langcat/internal/srs"
	"github.com/xxivani/langcat/pkg/models"
)

// StateEraser is the bulk-deletion side of a storage backend. Bulk removal
// is a lifecycle concern, not a scheduling one, so it stays out of srs.Store.
type StateEraser interface {
	DeleteAllStates(ctx context.Context, learnerID string) error
	DeleteStates(ctx context.Context, learnerID string, itemIDs []string) error
}

// Service owns the review lifecycle of a learner.
type Service struct {
	sched   *srs.Scheduler
	catalog *catalog.Service
	eraser  StateEraser
	logger  *zap.Logger
}

// NewService wires the progress service. The eraser must belong to the same
// backend the scheduler's store does.
func NewService(sched *srs.Scheduler, cat *catalog.Service, eraser StateEraser, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sched:   sched,
		catalog: cat,
		eraser:  eraser,
		logger:  logger,
	}
}

// StartLesson brings every word of a lesson into the learner's review set
// and returns the item ids now tracked. Completing a lesson twice changes
// nothing.
func (s *Service) StartLesson(ctx context.Context, learnerID, lessonID string, now time.Time) ([]string, error) {
	ids, err := s.catalog.ItemIDs(ctx, models.Collection{Kind: models.CollectionLesson, ID: lessonID})
	if err != nil {
		return nil, err
	}
	if err := s.sched.Initialize(ctx, learnerID, ids, now); err != nil {
		return nil, fmt.Errorf("start lesson %s: %w", lessonID, err)
	}
	s.logger.Info("lesson started",
		zap.String("learner_id", learnerID),
		zap.String("lesson_id", lessonID),
		zap.Int("words", len(ids)))
	return ids, nil
}

// StartDeck brings every word of a deck into the learner's review set. Any
// learner may start a deck they can reference; ownership gates edits only.
func (s *Service) StartDeck(ctx context.Context, learnerID, deckID string, now time.Time) ([]string, error) {
	ids, err := s.catalog.ItemIDs(ctx, models.Collection{Kind: models.CollectionDeck, ID: deckID})
	if err != nil {
		return nil, err
	}
	if err := s.sched.Initialize(ctx, learnerID, ids, now); err != nil {
		return nil, fmt.Errorf("start deck %s: %w", deckID, err)
	}
	s.logger.Info("deck started",
		zap.String("learner_id", learnerID),
		zap.String("deck_id", deckID),
		zap.Int("words", len(ids)))
	return ids, nil
}

// Track brings arbitrary items into the learner's review set, skipping any
// already tracked.
func (s *Service) Track(ctx context.Context, learnerID string, itemIDs []string, now time.Time) error {
	return s.sched.Initialize(ctx, learnerID, itemIDs, now)
}

// Rate applies one quality rating and returns the updated state.
func (s *Service) Rate(ctx context.Context, learnerID, itemID string, quality srs.Quality, now time.Time) (models.ReviewState, error) {
	return s.sched.Rate(ctx, learnerID, itemID, quality, now)
}

// ResetProgress wipes every review state of the learner. Catalog data is
// untouched; lessons can be started again from scratch.
func (s *Service) ResetProgress(ctx context.Context, learnerID string) error {
	if err := s.eraser.DeleteAllStates(ctx, learnerID); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	s.logger.Info("progress reset", zap.String("learner_id", learnerID))
	return nil
}

// RemoveDeck deletes a learner's deck together with the review states of its
// words. State deletion happens first so a failed catalog delete never
// leaves orphaned states behind a retried call.
func (s *Service) RemoveDeck(ctx context.Context, learnerID, deckID string) error {
	deck, err := s.catalog.Deck(ctx, deckID)
	if err != nil {
		return err
	}
	if deck.LearnerID != learnerID {
		return fmt.Errorf("%w: deck %s", catalog.ErrUnknownCollection, deckID)
	}

	ids, err := s.catalog.ItemIDs(ctx, models.Collection{Kind: models.CollectionDeck, ID: deckID})
	if err != nil {
		return err
	}
	if err := s.eraser.DeleteStates(ctx, learnerID, ids); err != nil {
		return fmt.Errorf("remove deck states: %w", err)
	}
	if err := s.catalog.DeleteDeck(ctx, learnerID, deckID); err != nil {
		return err
	}
	s.logger.Info("deck removed",
		zap.String("learner_id", learnerID),
		zap.String("deck_id", deckID),
		zap.Int("states_deleted", len(ids)))
	return nil
}
