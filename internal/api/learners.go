package api

import (
	"net/http"

	"github.com/xxivani/langcat/pkg/models"
)

// POST /api/learners
//
// Registers a learner and returns the record whose id the client sends back
// as X-Learner-ID from then on.
func (s *Server) handleCreateLearner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DisplayName == "" {
		http.Error(w, "display_name is required", http.StatusBadRequest)
		return
	}

	learner := &models.Learner{DisplayName: req.DisplayName}
	if err := s.learners.Create(r.Context(), learner); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, learner)
}
