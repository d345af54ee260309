package localstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/xxivani/langcat/internal/srs"
	"github.com/xxivani/langcat/pkg/models"
)

var testT0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "review.json")
	store := New(path, nil)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return store, path
}

func testState(itemID string, reps int, next time.Time) models.ReviewState {
	return models.ReviewState{
		VocabularyID:   itemID,
		EaseFactor:     2.5,
		IntervalDays:   reps,
		Repetitions:    reps,
		LastReviewedAt: testT0,
		NextReviewAt:   next,
	}
}

func TestLoadMissingFileCreatesIt(t *testing.T) {
	_, path := testStore(t)

	_, err := os.Stat(path)
	assert.NoError(t, err, "Load should write an empty store for a missing file")
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	err := New(path, nil).Load()
	assert.Error(t, err, "corrupt blobs must not be silently replaced")
}

func TestRoundTripSurvivesReload(t *testing.T) {
	store, path := testStore(t)
	ctx := context.Background()

	want := models.ReviewState{
		VocabularyID:   "w1",
		EaseFactor:     2.06,
		IntervalDays:   1,
		Repetitions:    0,
		LastReviewedAt: testT0,
		NextReviewAt:   testT0.AddDate(0, 0, 1),
	}
	assert.NoError(t, store.UpsertState(ctx, "lena", want))

	// A brand new instance over the same file sees the same state.
	reloaded := New(path, nil)
	assert.NoError(t, reloaded.Load())

	got, err := reloaded.GetState(ctx, "lena", "w1")
	assert.NoError(t, err)

	want.LearnerID = "lena"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reloaded state mismatch (-want +got):\n%s", diff)
	}
}

func TestBlobFieldNames(t *testing.T) {
	store, path := testStore(t)
	assert.NoError(t, store.UpsertState(context.Background(), "lena", testState("w1", 2, testT0)))

	raw, err := os.ReadFile(path)
	assert.NoError(t, err)

	// The device app reads this file directly; field names and timestamp
	// format are part of the contract.
	var blob struct {
		Version  int                                  `json:"version"`
		Learners map[string]map[string]map[string]any `json:"learners"`
	}
	assert.NoError(t, json.Unmarshal(raw, &blob))
	assert.Equal(t, 1, blob.Version)

	state := blob.Learners["lena"]["w1"]
	for _, key := range []string{"itemId", "easeFactor", "intervalDays", "repetitions", "lastReviewedAt", "nextReviewAt"} {
		assert.Contains(t, state, key)
	}
	next, ok := state["nextReviewAt"].(string)
	assert.True(t, ok)
	parsed, err := time.Parse(time.RFC3339, next)
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(testT0))
}

func TestGetStateNotFound(t *testing.T) {
	store, _ := testStore(t)

	_, err := store.GetState(context.Background(), "lena", "ghost")
	assert.ErrorIs(t, err, srs.ErrStateNotFound)
}

func TestInsertStatesIfAbsentSkipsExisting(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	rated := testState("w1", 3, testT0.AddDate(0, 0, 15))
	assert.NoError(t, store.UpsertState(ctx, "lena", rated))

	assert.NoError(t, store.InsertStatesIfAbsent(ctx, "lena", []models.ReviewState{
		testState("w1", 0, testT0),
		testState("w2", 0, testT0),
	}))

	kept, err := store.GetState(ctx, "lena", "w1")
	assert.NoError(t, err)
	assert.Equal(t, 3, kept.Repetitions, "existing state must stay untouched")

	created, err := store.GetState(ctx, "lena", "w2")
	assert.NoError(t, err)
	assert.Equal(t, 0, created.Repetitions)
}

func TestGetStatesForItems(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	for _, id := range []string{"w1", "w2", "w3"} {
		assert.NoError(t, store.UpsertState(ctx, "lena", testState(id, 1, testT0)))
	}

	states, err := store.GetStatesForItems(ctx, "lena", []string{"w2", "missing"})
	assert.NoError(t, err)
	assert.Len(t, states, 1)
	assert.Equal(t, "w2", states[0].VocabularyID)
}

func TestGetAllStatesSortedByDue(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	assert.NoError(t, store.UpsertState(ctx, "lena", testState("late", 1, testT0.AddDate(0, 0, 9))))
	assert.NoError(t, store.UpsertState(ctx, "lena", testState("soon", 1, testT0.AddDate(0, 0, 1))))
	assert.NoError(t, store.UpsertState(ctx, "lena", testState("now", 1, testT0)))

	states, err := store.GetAllStates(ctx, "lena")
	assert.NoError(t, err)

	ids := make([]string, len(states))
	for i, st := range states {
		ids[i] = st.VocabularyID
	}
	assert.Equal(t, []string{"now", "soon", "late"}, ids)
}

func TestDeleteAllStates(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	assert.NoError(t, store.UpsertState(ctx, "lena", testState("w1", 1, testT0)))
	assert.NoError(t, store.UpsertState(ctx, "marc", testState("w1", 1, testT0)))

	assert.NoError(t, store.DeleteAllStates(ctx, "lena"))

	lena, err := store.GetAllStates(ctx, "lena")
	assert.NoError(t, err)
	assert.Empty(t, lena)

	marc, err := store.GetAllStates(ctx, "marc")
	assert.NoError(t, err)
	assert.Len(t, marc, 1)
}

func TestDeleteStatesSubset(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	for _, id := range []string{"w1", "w2", "w3"} {
		assert.NoError(t, store.UpsertState(ctx, "lena", testState(id, 1, testT0)))
	}
	assert.NoError(t, store.DeleteStates(ctx, "lena", []string{"w1", "w3"}))

	states, err := store.GetAllStates(ctx, "lena")
	assert.NoError(t, err)
	assert.Len(t, states, 1)
	assert.Equal(t, "w2", states[0].VocabularyID)
}

// TestSchedulerOverLocalStore mirrors the relational-store integration test:
// the identical scheduler drives this backend through the same contract.
func TestSchedulerOverLocalStore(t *testing.T) {
	store, _ := testStore(t)
	sched := srs.NewScheduler(store, srs.Config{}, nil)
	ctx := context.Background()

	items := []string{"w1", "w2", "w3"}
	assert.NoError(t, sched.Initialize(ctx, "lena", items, testT0))

	due, err := sched.DueItems(ctx, "lena", items, testT0)
	assert.NoError(t, err)
	assert.ElementsMatch(t, items, due)

	state, err := sched.Rate(ctx, "lena", "w1", srs.QualityGood, testT0)
	assert.NoError(t, err)
	assert.Equal(t, 1, state.IntervalDays)

	due, err = sched.DueItems(ctx, "lena", items, testT0.Add(time.Hour))
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"w2", "w3"}, due)

	assert.NoError(t, sched.Initialize(ctx, "lena", items, testT0.AddDate(0, 0, 2)))
	kept, err := sched.State(ctx, "lena", "w1")
	assert.NoError(t, err)
	assert.Equal(t, 1, kept.Repetitions)
}
