package api

import (
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/MoFaraz/guess-words/internal/store"
)

type wordView struct {
	ID         int64  `json:"id"`
	Word       string `json:"word"`
	Difficulty int    `json:"difficulty"`
}

type wordRequest struct {
	Word       string `json:"word"`
	Difficulty int    `json:"difficulty"`
}

func (req *wordRequest) validate() string {
	if n := utf8.RuneCountInString(req.Word); n == 0 || n > 30 {
		return "word must be 1-30 characters"
	}
	if req.Difficulty < store.DifficultyEasy || req.Difficulty > store.DifficultyHard {
		return "difficulty must be 1, 2 or 3"
	}
	return ""
}

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.Store.Words(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	views := make([]wordView, 0, len(words))
	for _, wd := range words {
		views = append(views, wordView{ID: wd.ID, Word: wd.Word, Difficulty: wd.Difficulty})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateWord(w http.ResponseWriter, r *http.Request) {
	var req wordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	wd := &store.Word{Word: req.Word, Difficulty: req.Difficulty}
	if err := s.Store.CreateWord(r.Context(), wd); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, wordView{ID: wd.ID, Word: wd.Word, Difficulty: wd.Difficulty})
}

func (s *Server) wordIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid word id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetWord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.wordIDFromURL(w, r)
	if !ok {
		return
	}
	wd, err := s.Store.WordByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "word not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, wordView{ID: wd.ID, Word: wd.Word, Difficulty: wd.Difficulty})
}

func (s *Server) handleUpdateWord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.wordIDFromURL(w, r)
	if !ok {
		return
	}
	var req wordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	wd := &store.Word{ID: id, Word: req.Word, Difficulty: req.Difficulty}
	if err := s.Store.UpdateWord(r.Context(), wd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "word not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, wordView{ID: wd.ID, Word: wd.Word, Difficulty: wd.Difficulty})
}

func (s *Server) handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.wordIDFromURL(w, r)
	if !ok {
		return
	}
	if err := s.Store.DeleteWord(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "word not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Board.Top(r.Context())
	if err != nil {
		s.Log.Errorw("leaderboard failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
