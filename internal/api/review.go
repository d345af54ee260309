package api

import (
	"net/http"

	"github.com/xxivani/langcat/internal/progress"
	"github.com/xxivani/langcat/internal/srs"
	"github.com/xxivani/langcat/pkg/models"
)

// POST /api/review/lessons/{lessonID}/start
func (s *Server) handleStartLesson(w http.ResponseWriter, r *http.Request, learnerID string) {
	ids, err := s.progress.StartLesson(r.Context(), learnerID, r.PathValue("lessonID"), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, startResponse{ItemIDs: ids, Count: len(ids)})
}

// POST /api/review/decks/{deckID}/start
func (s *Server) handleStartDeck(w http.ResponseWriter, r *http.Request, learnerID string) {
	ids, err := s.progress.StartDeck(r.Context(), learnerID, r.PathValue("deckID"), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, startResponse{ItemIDs: ids, Count: len(ids)})
}

type startResponse struct {
	ItemIDs []string `json:"item_ids"`
	Count   int      `json:"count"`
}

// GET /api/review/queue?collection=kind/id
func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request, learnerID string) {
	col, err := models.ParseCollection(r.URL.Query().Get("collection"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	queue, err := s.progress.Queue(r.Context(), learnerID, col, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, queue)
}

// GET /api/review/due-counts
func (s *Server) handleDueCounts(w http.ResponseWriter, r *http.Request, learnerID string) {
	counts, err := s.progress.DueCounts(r.Context(), learnerID, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, counts)
}

// POST /api/review/rate
//
// Body carries either the numeric quality or a rating button name. The
// response is the updated scheduling state.
func (s *Server) handleRate(w http.ResponseWriter, r *http.Request, learnerID string) {
	var req struct {
		ItemID  string `json:"itemId"`
		Quality *int   `json:"quality"`
		Rating  string `json:"rating"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ItemID == "" {
		http.Error(w, "itemId is required", http.StatusBadRequest)
		return
	}

	var quality srs.Quality
	switch {
	case req.Rating != "":
		q, err := progress.QualityForButton(req.Rating)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		quality = q
	case req.Quality != nil:
		quality = srs.Quality(*req.Quality)
	default:
		http.Error(w, "quality or rating is required", http.StatusBadRequest)
		return
	}

	state, err := s.progress.Rate(r.Context(), learnerID, req.ItemID, quality, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		State models.ReviewState `json:"state"`
		Stage string             `json:"stage"`
	}{state, srs.StageOf(state).String()})
}

// GET /api/stats/summary
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, learnerID string) {
	summary, err := s.progress.Summary(r.Context(), learnerID, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// POST /api/progress/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, learnerID string) {
	if err := s.progress.ResetProgress(r.Context(), learnerID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
