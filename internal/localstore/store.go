// Package localstore persists review states in a single JSON file. It is the
// on-device counterpart of the relational store: the same srs.Store contract,
// backed by an atomically rewritten blob instead of a database.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xxivani/langcat/internal/srs"
	"github.com/xxivani/langcat/pkg/models"
)

const fileVersion = 1

// fileData is the on-disk layout: review states keyed by learner, then item.
type fileData struct {
	Version     int                                      `json:"version"`
	Learners    map[string]map[string]models.ReviewState `json:"learners"`
	LastUpdated time.Time                                `json:"lastUpdated"`
}

// Store implements srs.Store over one JSON file. All mutations rewrite the
// file through a temp-file rename, so the blob on disk is always either the
// old or the new state, never partial.
type Store struct {
	path   string
	logger *zap.Logger

	mu   sync.RWMutex
	data fileData
}

// New creates a Store for the given file path. Call Load before use.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		logger: logger,
		data: fileData{
			Version:  fileVersion,
			Learners: make(map[string]map[string]models.ReviewState),
		},
	}
}

// Load reads the file into memory. A missing file initializes an empty store
// and writes it out, so the path exists from the first run.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Info("no local store yet, creating", zap.String("path", s.path))
		return s.save()
	}
	if err != nil {
		return fmt.Errorf("failed to read local store: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse local store: %w", err)
	}
	if data.Learners == nil {
		data.Learners = make(map[string]map[string]models.ReviewState)
	}
	data.Version = fileVersion
	s.data = data

	s.logger.Debug("loaded local store",
		zap.String("path", s.path),
		zap.Int("learners", len(data.Learners)))
	return nil
}

// save writes the store to disk. The write lock must be held.
func (s *Store) save() error {
	s.data.LastUpdated = time.Now().UTC()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal local store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write local store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace local store: %w", err)
	}
	return nil
}

// GetState returns the state for one (learner, item) pair.
func (s *Store) GetState(_ context.Context, learnerID, itemID string) (models.ReviewState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data.Learners[learnerID][itemID]
	if !ok {
		return models.ReviewState{}, srs.ErrStateNotFound
	}
	state.LearnerID = learnerID
	return state, nil
}

// GetStatesForItems returns the states that exist among the given item ids.
func (s *Store) GetStatesForItems(_ context.Context, learnerID string, itemIDs []string) ([]models.ReviewState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]models.ReviewState, 0, len(itemIDs))
	for _, id := range itemIDs {
		if state, ok := s.data.Learners[learnerID][id]; ok {
			state.LearnerID = learnerID
			states = append(states, state)
		}
	}
	return states, nil
}

// GetAllStates returns every review state of the learner, earliest due first.
func (s *Store) GetAllStates(_ context.Context, learnerID string) ([]models.ReviewState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]models.ReviewState, 0, len(s.data.Learners[learnerID]))
	for _, state := range s.data.Learners[learnerID] {
		state.LearnerID = learnerID
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool {
		if !states[i].NextReviewAt.Equal(states[j].NextReviewAt) {
			return states[i].NextReviewAt.Before(states[j].NextReviewAt)
		}
		return states[i].VocabularyID < states[j].VocabularyID
	})
	return states, nil
}

// UpsertState writes one state, last-write-wins per (learner, item). If the
// file write fails the in-memory state is rolled back, so a failed upsert
// never leaves half an update behind.
func (s *Store) UpsertState(_ context.Context, learnerID string, state models.ReviewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Learners[learnerID] == nil {
		s.data.Learners[learnerID] = make(map[string]models.ReviewState)
	}
	prev, existed := s.data.Learners[learnerID][state.VocabularyID]

	state.LearnerID = learnerID
	s.data.Learners[learnerID][state.VocabularyID] = state

	if err := s.save(); err != nil {
		if existed {
			s.data.Learners[learnerID][state.VocabularyID] = prev
		} else {
			delete(s.data.Learners[learnerID], state.VocabularyID)
		}
		return err
	}
	return nil
}

// InsertStatesIfAbsent creates the given states, skipping pairs that already
// exist. The whole batch lands or none of it does.
func (s *Store) InsertStatesIfAbsent(_ context.Context, learnerID string, states []models.ReviewState) error {
	if len(states) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Learners[learnerID] == nil {
		s.data.Learners[learnerID] = make(map[string]models.ReviewState)
	}
	var created []string
	for _, state := range states {
		if _, ok := s.data.Learners[learnerID][state.VocabularyID]; ok {
			continue
		}
		state.LearnerID = learnerID
		s.data.Learners[learnerID][state.VocabularyID] = state
		created = append(created, state.VocabularyID)
	}
	if len(created) == 0 {
		return nil
	}

	if err := s.save(); err != nil {
		for _, id := range created {
			delete(s.data.Learners[learnerID], id)
		}
		return err
	}
	return nil
}

// DeleteAllStates removes every review state of the learner.
func (s *Store) DeleteAllStates(_ context.Context, learnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Learners[learnerID]; !ok {
		return nil
	}
	delete(s.data.Learners, learnerID)
	return s.save()
}

// DeleteStates removes the states for the given items.
func (s *Store) DeleteStates(_ context.Context, learnerID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.data.Learners[learnerID]
	if items == nil {
		return nil
	}
	removed := false
	for _, id := range itemIDs {
		if _, ok := items[id]; ok {
			delete(items, id)
			removed = true
		}
	}
	if !removed {
		return nil
	}
	return s.save()
}
