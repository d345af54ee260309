package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xxivani/langcat/internal/catalog"
	"github.com/xxivani/langcat/internal/database"
	"github.com/xxivani/langcat/internal/progress"
	"github.com/xxivani/langcat/internal/srs"
	"github.com/xxivani/langcat/pkg/models"
)

type testServer struct {
	handler http.Handler
	server  *Server
	learner *models.Learner
	lesson  *models.Lesson
	words   []*models.Word
	now     time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	lessons := database.NewLessonRepository(db)
	words := database.NewWordRepository(db)
	learners := database.NewLearnerRepository(db)
	states := database.NewReviewStateRepository(db)

	level := &models.Level{Code: "A1", Title: "Beginner", Position: 1}
	if err := lessons.CreateLevel(ctx, level); err != nil {
		t.Fatalf("CreateLevel: %v", err)
	}
	lesson := &models.Lesson{LevelID: level.ID, Title: "Food", Position: 1}
	if err := lessons.CreateLesson(ctx, lesson); err != nil {
		t.Fatalf("CreateLesson: %v", err)
	}
	var seeded []*models.Word
	for _, term := range []string{"pan", "queso"} {
		w := &models.Word{LessonID: &lesson.ID, Term: term, Translation: term + " (en)"}
		if err := words.Create(ctx, w); err != nil {
			t.Fatalf("Create word: %v", err)
		}
		seeded = append(seeded, w)
	}
	learner := &models.Learner{DisplayName: "Iris"}
	if err := learners.Create(ctx, learner); err != nil {
		t.Fatalf("Create learner: %v", err)
	}

	cat := catalog.NewService(db, catalog.NewCache(time.Minute), nil)
	sched := srs.NewScheduler(states, srs.Config{}, nil)
	prog := progress.NewService(sched, cat, states, nil)

	srv := NewServer(prog, cat, learners, nil)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	srv.now = func() time.Time { return now }

	return &testServer{
		handler: srv.Routes(),
		server:  srv,
		learner: learner,
		lesson:  lesson,
		words:   seeded,
		now:     now,
	}
}

// do issues one request against the route table. A nil body sends no JSON;
// learnerID adds the identification header when non-empty.
func (ts *testServer) do(t *testing.T, method, path string, body any, learnerID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if learnerID != "" {
		req.Header.Set(LearnerHeader, learnerID)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestCatalogRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/levels", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	levels := decodeBody[[]models.Level](t, rec)
	assert.Len(t, levels, 1)
	assert.Equal(t, "A1", levels[0].Code)

	rec = ts.do(t, http.MethodGet, "/api/levels/"+levels[0].ID+"/lessons", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	lessons := decodeBody[[]models.Lesson](t, rec)
	assert.Len(t, lessons, 1)

	rec = ts.do(t, http.MethodGet, "/api/lessons/"+ts.lesson.ID+"/words", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	words := decodeBody[[]models.Word](t, rec)
	assert.Len(t, words, 2)

	rec = ts.do(t, http.MethodGet, "/api/lessons/no-such/words", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateLearner(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/learners", map[string]string{"display_name": "Noa"}, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	learner := decodeBody[models.Learner](t, rec)
	assert.NotEmpty(t, learner.ID)
	assert.Equal(t, "Noa", learner.DisplayName)

	rec = ts.do(t, http.MethodPost, "/api/learners", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewFlow(t *testing.T) {
	ts := newTestServer(t)
	me := ts.learner.ID

	rec := ts.do(t, http.MethodPost, "/api/review/lessons/"+ts.lesson.ID+"/start", nil, me)
	assert.Equal(t, http.StatusOK, rec.Code)
	started := decodeBody[startResponse](t, rec)
	assert.Equal(t, 2, started.Count)

	rec = ts.do(t, http.MethodGet, "/api/review/queue?collection=lesson/"+ts.lesson.ID, nil, me)
	assert.Equal(t, http.StatusOK, rec.Code)
	queue := decodeBody[progress.ReviewQueue](t, rec)
	assert.Len(t, queue.Due, 2, "fresh cards are due at once")
	assert.Empty(t, queue.New)

	// Rate one card by button, the other numerically.
	rec = ts.do(t, http.MethodPost, "/api/review/rate",
		map[string]any{"itemId": ts.words[0].ID, "rating": "good"}, me)
	assert.Equal(t, http.StatusOK, rec.Code)
	rated := decodeBody[struct {
		State models.ReviewState `json:"state"`
		Stage string             `json:"stage"`
	}](t, rec)
	assert.Equal(t, 1, rated.State.Repetitions)
	assert.Equal(t, 1, rated.State.IntervalDays)
	assert.Equal(t, "Learning", rated.Stage)

	rec = ts.do(t, http.MethodPost, "/api/review/rate",
		map[string]any{"itemId": ts.words[1].ID, "quality": 5}, me)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/review/queue?collection=lesson/"+ts.lesson.ID, nil, me)
	queue = decodeBody[progress.ReviewQueue](t, rec)
	assert.Empty(t, queue.Due, "both cards scheduled for tomorrow")

	rec = ts.do(t, http.MethodGet, "/api/stats/summary", nil, me)
	assert.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[models.LearnerSummary](t, rec)
	assert.Equal(t, 2, summary.TotalTracked)
	assert.Equal(t, 100, summary.AccuracyPercent)

	rec = ts.do(t, http.MethodGet, "/api/review/due-counts", nil, me)
	assert.Equal(t, http.StatusOK, rec.Code)
	counts := decodeBody[[]models.CollectionDueCount](t, rec)
	assert.Len(t, counts, 1)
	assert.Equal(t, 0, counts[0].Due)
	assert.Equal(t, 2, counts[0].Total)
}

func TestRateErrorMapping(t *testing.T) {
	ts := newTestServer(t)
	me := ts.learner.ID

	// Never-started card: contract violation, not absence.
	rec := ts.do(t, http.MethodPost, "/api/review/rate",
		map[string]any{"itemId": ts.words[0].ID, "quality": 4}, me)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/review/rate",
		map[string]any{"itemId": ts.words[0].ID, "quality": 9}, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/review/rate",
		map[string]any{"itemId": ts.words[0].ID, "rating": "meh"}, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/review/rate",
		map[string]any{"itemId": ts.words[0].ID}, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/review/rate",
		map[string]any{"quality": 4}, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueueParamValidation(t *testing.T) {
	ts := newTestServer(t)
	me := ts.learner.ID

	rec := ts.do(t, http.MethodGet, "/api/review/queue", nil, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing collection param")

	rec = ts.do(t, http.MethodGet, "/api/review/queue?collection=galaxy/xyz", nil, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown kind")

	rec = ts.do(t, http.MethodGet, "/api/review/queue?collection=lesson/no-such", nil, me)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/review/queue?collection=lesson/"+ts.lesson.ID, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "learner header required")
}

func TestDeckLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	me := ts.learner.ID

	rec := ts.do(t, http.MethodPost, "/api/decks", map[string]string{"name": "Kitchen"}, me)
	assert.Equal(t, http.StatusCreated, rec.Code)
	deck := decodeBody[models.Deck](t, rec)
	assert.NotEmpty(t, deck.ShareCode)

	rec = ts.do(t, http.MethodPost, "/api/decks/"+deck.ID+"/words", map[string]any{
		"word_ids":  []string{ts.words[0].ID},
		"new_words": []models.Word{{Term: "sartén", Translation: "pan (cookware)"}},
	}, me)
	assert.Equal(t, http.StatusOK, rec.Code)
	added := decodeBody[struct {
		Added []string `json:"added"`
	}](t, rec)
	assert.Len(t, added.Added, 2)

	rec = ts.do(t, http.MethodGet, "/api/decks", nil, me)
	decks := decodeBody[[]models.Deck](t, rec)
	assert.Len(t, decks, 1)

	// Resolve by share code without any learner header.
	rec = ts.do(t, http.MethodGet, "/api/decks/shared/"+deck.ShareCode, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	shared := decodeBody[struct {
		Deck  models.Deck   `json:"deck"`
		Words []models.Word `json:"words"`
	}](t, rec)
	assert.Equal(t, deck.ID, shared.Deck.ID)
	assert.Len(t, shared.Words, 2)

	rec = ts.do(t, http.MethodPost, "/api/review/decks/"+deck.ID+"/start", nil, me)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/decks/"+deck.ID, nil, me)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/decks/shared/"+deck.ShareCode, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The lesson word shared into the deck lost its state with the deck.
	rec = ts.do(t, http.MethodPost, "/api/review/rate",
		map[string]any{"itemId": ts.words[0].ID, "quality": 4}, me)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResetProgress(t *testing.T) {
	ts := newTestServer(t)
	me := ts.learner.ID

	rec := ts.do(t, http.MethodPost, "/api/review/lessons/"+ts.lesson.ID+"/start", nil, me)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/progress/reset", nil, me)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/stats/summary", nil, me)
	summary := decodeBody[models.LearnerSummary](t, rec)
	assert.Equal(t, 0, summary.TotalTracked)
	assert.Equal(t, srs.DefaultInitialEase, summary.AverageEase)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/levels", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
