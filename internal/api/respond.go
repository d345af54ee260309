package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xxivani/langcat/internal/catalog"
	"github.com/xxivani/langcat/internal/database"
	"github.com/xxivani/langcat/internal/srs"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

// writeError maps domain sentinels onto status codes. Anything unmapped is a
// storage or programming failure and logs as a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, srs.ErrInvalidQuality), errors.Is(err, catalog.ErrUnknownWords):
		status = http.StatusBadRequest
	case errors.Is(err, srs.ErrNotInitialized):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrUnknownCollection),
		errors.Is(err, srs.ErrStateNotFound),
		errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

// decodeJSON parses the request body into dst, answering 400 itself on
// malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
