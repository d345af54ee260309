package api

import "net/http"

// GET /api/levels
func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.catalog.Levels(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, levels)
}

// GET /api/levels/{levelID}/lessons
func (s *Server) handleLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := s.catalog.LessonsByLevel(r.Context(), r.PathValue("levelID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lessons)
}

// GET /api/lessons/{lessonID}/words
func (s *Server) handleLessonWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.catalog.LessonWords(r.Context(), r.PathValue("lessonID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, words)
}
