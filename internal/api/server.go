// Package api exposes the catalog and the review lifecycle over HTTP as the
// boundary for the mobile client. JSON in and out, no auth: the client
// identifies itself with the X-Learner-ID header.
package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xxivani/langcat/internal/catalog"
	"github.com/xxivani/langcat/internal/database"
	"github.com/xxivani/langcat/internal/progress"
)

// LearnerHeader carries the caller's learner id on every learner-scoped
// route.
const LearnerHeader = "X-Learner-ID"

// Server holds the handler dependencies.
type Server struct {
	progress *progress.Service
	catalog  *catalog.Service
	learners *database.LearnerRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewServer(prog *progress.Service, cat *catalog.Service, learners *database.LearnerRepository, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		progress: prog,
		catalog:  cat,
		learners: learners,
		logger:   logger,
		now:      time.Now,
	}
}

// Routes builds the full route table. CORS is applied by the caller around
// the returned handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/levels", s.handleLevels)
	mux.HandleFunc("GET /api/levels/{levelID}/lessons", s.handleLessons)
	mux.HandleFunc("GET /api/lessons/{lessonID}/words", s.handleLessonWords)

	mux.HandleFunc("POST /api/learners", s.handleCreateLearner)

	mux.HandleFunc("GET /api/decks", s.withLearner(s.handleListDecks))
	mux.HandleFunc("POST /api/decks", s.withLearner(s.handleCreateDeck))
	mux.HandleFunc("GET /api/decks/shared/{code}", s.handleSharedDeck)
	mux.HandleFunc("DELETE /api/decks/{deckID}", s.withLearner(s.handleRemoveDeck))
	mux.HandleFunc("POST /api/decks/{deckID}/words", s.withLearner(s.handleAddDeckWords))

	mux.HandleFunc("POST /api/review/lessons/{lessonID}/start", s.withLearner(s.handleStartLesson))
	mux.HandleFunc("POST /api/review/decks/{deckID}/start", s.withLearner(s.handleStartDeck))
	mux.HandleFunc("GET /api/review/queue", s.withLearner(s.handleQueue))
	mux.HandleFunc("GET /api/review/due-counts", s.withLearner(s.handleDueCounts))
	mux.HandleFunc("POST /api/review/rate", s.withLearner(s.handleRate))

	mux.HandleFunc("GET /api/stats/summary", s.withLearner(s.handleSummary))
	mux.HandleFunc("POST /api/progress/reset", s.withLearner(s.handleReset))

	return s.logRequests(mux)
}

type learnerHandler func(w http.ResponseWriter, r *http.Request, learnerID string)

// withLearner requires the X-Learner-ID header and passes its value on.
func (s *Server) withLearner(next learnerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		learnerID := r.Header.Get(LearnerHeader)
		if learnerID == "" {
			http.Error(w, "missing "+LearnerHeader+" header", http.StatusBadRequest)
			return
		}
		next(w, r, learnerID)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}
