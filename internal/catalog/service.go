// Package catalog is the read side for reviewable items: curriculum levels,
// their lessons, and user-defined decks. The review scheduler treats item ids
// as opaque; this package is where they resolve to actual vocabulary.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/xxivani/langcat/internal/database"
	"github.com/xxivani/langcat/pkg/models"
)

// ErrUnknownCollection is returned when a level, lesson or deck id does not
// resolve to anything.
var ErrUnknownCollection = errors.New("catalog: unknown collection")

// ErrUnknownWords is returned when a deck edit references word ids that do
// not exist in the catalog.
var ErrUnknownWords = errors.New("catalog: unknown words")

// Service serves catalog reads through the TTL cache and owns deck edits.
type Service struct {
	lessons *database.LessonRepository
	words   *database.WordRepository
	decks   *database.DeckRepository
	cache   *Cache
	logger  *zap.Logger
}

// NewService creates a catalog service over the relational store.
func NewService(db *database.DB, cache *Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NewCache(DefaultTTL)
	}
	return &Service{
		lessons: database.NewLessonRepository(db),
		words:   database.NewWordRepository(db),
		decks:   database.NewDeckRepository(db),
		cache:   cache,
		logger:  logger,
	}
}

// Levels returns all curriculum levels.
func (s *Service) Levels(ctx context.Context) ([]models.Level, error) {
	if v, ok := s.cache.get("levels"); ok {
		return v.([]models.Level), nil
	}
	levels, err := s.lessons.Levels(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set("levels", levels)
	return levels, nil
}

// LessonsByLevel returns the lessons of one level.
func (s *Service) LessonsByLevel(ctx context.Context, levelID string) ([]models.Lesson, error) {
	key := "lessons:" + levelID
	if v, ok := s.cache.get(key); ok {
		return v.([]models.Lesson), nil
	}
	lessons, err := s.lessons.LessonsByLevel(ctx, levelID)
	if err != nil {
		return nil, err
	}
	s.cache.set(key, lessons)
	return lessons, nil
}

// LessonWords returns the words of one lesson.
func (s *Service) LessonWords(ctx context.Context, lessonID string) ([]models.Word, error) {
	key := "lesson-words:" + lessonID
	if v, ok := s.cache.get(key); ok {
		return v.([]models.Word), nil
	}
	if _, err := s.lessons.LessonByID(ctx, lessonID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: lesson %s", ErrUnknownCollection, lessonID)
		}
		return nil, err
	}
	words, err := s.words.GetByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	s.cache.set(key, words)
	return words, nil
}

// DeckWords returns the words of one deck.
func (s *Service) DeckWords(ctx context.Context, deckID string) ([]models.Word, error) {
	key := "deck-words:" + deckID
	if v, ok := s.cache.get(key); ok {
		return v.([]models.Word), nil
	}
	if _, err := s.Deck(ctx, deckID); err != nil {
		return nil, err
	}
	words, err := s.decks.Words(ctx, deckID)
	if err != nil {
		return nil, err
	}
	s.cache.set(key, words)
	return words, nil
}

// Items resolves a collection to its words.
func (s *Service) Items(ctx context.Context, col models.Collection) ([]models.Word, error) {
	switch col.Kind {
	case models.CollectionLesson:
		return s.LessonWords(ctx, col.ID)
	case models.CollectionDeck:
		return s.DeckWords(ctx, col.ID)
	case models.CollectionLevel:
		if _, err := s.lessons.LevelByID(ctx, col.ID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, fmt.Errorf("%w: level %s", ErrUnknownCollection, col.ID)
			}
			return nil, err
		}
		lessons, err := s.LessonsByLevel(ctx, col.ID)
		if err != nil {
			return nil, err
		}
		var words []models.Word
		for _, lesson := range lessons {
			lw, err := s.LessonWords(ctx, lesson.ID)
			if err != nil {
				return nil, err
			}
			words = append(words, lw...)
		}
		return words, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, col)
	}
}

// ItemIDs resolves a collection to the ids the scheduler works with.
func (s *Service) ItemIDs(ctx context.Context, col models.Collection) ([]string, error) {
	words, err := s.Items(ctx, col)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}
	return ids, nil
}

// Decks returns the learner's decks.
func (s *Service) Decks(ctx context.Context, learnerID string) ([]models.Deck, error) {
	key := "decks:" + learnerID
	if v, ok := s.cache.get(key); ok {
		return v.([]models.Deck), nil
	}
	decks, err := s.decks.GetByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	s.cache.set(key, decks)
	return decks, nil
}

// Deck returns one deck by id.
func (s *Service) Deck(ctx context.Context, deckID string) (*models.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: deck %s", ErrUnknownCollection, deckID)
	}
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// DeckByShareCode returns the deck behind a public share code.
func (s *Service) DeckByShareCode(ctx context.Context, code string) (*models.Deck, error) {
	deck, err := s.decks.GetByShareCode(ctx, code)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: share code %s", ErrUnknownCollection, code)
	}
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// CreateDeck creates an empty deck with a fresh share code.
func (s *Service) CreateDeck(ctx context.Context, learnerID, name string) (*models.Deck, error) {
	code, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate share code: %w", err)
	}
	deck := &models.Deck{
		LearnerID: learnerID,
		Name:      name,
		ShareCode: code,
	}
	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, err
	}
	s.cache.delete("decks:" + learnerID)
	s.logger.Info("created deck",
		zap.String("learner_id", learnerID),
		zap.String("deck_id", deck.ID),
		zap.String("name", name))
	return deck, nil
}

// DeleteDeck removes a learner's deck. Review-state cleanup is the progress
// service's job; this only touches catalog data.
func (s *Service) DeleteDeck(ctx context.Context, learnerID, deckID string) error {
	deck, err := s.Deck(ctx, deckID)
	if err != nil {
		return err
	}
	if deck.LearnerID != learnerID {
		return fmt.Errorf("%w: deck %s", ErrUnknownCollection, deckID)
	}
	if err := s.decks.Delete(ctx, deckID); err != nil {
		return err
	}
	s.cache.delete("decks:"+learnerID, "deck-words:"+deckID)
	s.logger.Info("deleted deck",
		zap.String("learner_id", learnerID),
		zap.String("deck_id", deckID))
	return nil
}

// AddWordsToDeck attaches existing catalog words and/or brand-new custom
// words to a deck, and returns the ids of everything added.
func (s *Service) AddWordsToDeck(ctx context.Context, learnerID, deckID string, wordIDs []string, newWords []models.Word, now time.Time) ([]string, error) {
	deck, err := s.Deck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.LearnerID != learnerID {
		return nil, fmt.Errorf("%w: deck %s", ErrUnknownCollection, deckID)
	}

	if len(wordIDs) > 0 {
		existing, err := s.words.GetByIDs(ctx, wordIDs)
		if err != nil {
			return nil, err
		}
		if len(existing) != len(dedupe(wordIDs)) {
			return nil, fmt.Errorf("%w: deck %s", ErrUnknownWords, deckID)
		}
	}

	added := dedupe(wordIDs)
	for i := range newWords {
		word := newWords[i]
		if err := s.words.Create(ctx, &word); err != nil {
			return nil, err
		}
		added = append(added, word.ID)
	}

	if err := s.decks.AddWords(ctx, deckID, added, now); err != nil {
		return nil, err
	}
	s.cache.delete("deck-words:"+deckID, "decks:"+learnerID)
	return added, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
