package api

import (
	"net/http"

	"github.com/xxivani/langcat/pkg/models"
)

// GET /api/decks
func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request, learnerID string) {
	decks, err := s.catalog.Decks(r.Context(), learnerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, decks)
}

// POST /api/decks
func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request, learnerID string) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		http.Error(w, "deck name is required", http.StatusBadRequest)
		return
	}

	deck, err := s.catalog.CreateDeck(r.Context(), learnerID, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, deck)
}

// GET /api/decks/shared/{code}
//
// Resolves a share code so another learner can look a deck over and start
// reviewing it. No learner header needed; the code is the capability.
func (s *Server) handleSharedDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.catalog.DeckByShareCode(r.Context(), r.PathValue("code"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	words, err := s.catalog.DeckWords(r.Context(), deck.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Deck  *models.Deck  `json:"deck"`
		Words []models.Word `json:"words"`
	}{deck, words})
}

// DELETE /api/decks/{deckID}
//
// Removes the deck together with the learner's review states for its words.
func (s *Server) handleRemoveDeck(w http.ResponseWriter, r *http.Request, learnerID string) {
	if err := s.progress.RemoveDeck(r.Context(), learnerID, r.PathValue("deckID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/decks/{deckID}/words
func (s *Server) handleAddDeckWords(w http.ResponseWriter, r *http.Request, learnerID string) {
	var req struct {
		WordIDs  []string      `json:"word_ids"`
		NewWords []models.Word `json:"new_words"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.WordIDs) == 0 && len(req.NewWords) == 0 {
		http.Error(w, "nothing to add", http.StatusBadRequest)
		return
	}

	added, err := s.catalog.AddWordsToDeck(r.Context(), learnerID, r.PathValue("deckID"), req.WordIDs, req.NewWords, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Added []string `json:"added"`
	}{added})
}
