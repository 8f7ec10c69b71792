package api

import (
	"errors"
	"net/http"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/MoFaraz/guess-words/internal/auth"
	"github.com/MoFaraz/guess-words/internal/game"
	"github.com/MoFaraz/guess-words/internal/store"
)

// gameErrStatus maps domain errors to HTTP status codes.
func gameErrStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrOpenGameExists):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	// listing also sweeps timed-out games, matching the old behavior of
	// completing expirations on read
	if _, err := s.Games.SweepExpired(r.Context()); err != nil {
		s.Log.Warnw("expiry sweep on list failed", "error", err)
	}

	status := 0
	if v := r.URL.Query().Get("status"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < store.StatusWaiting || n > store.StatusCompleted {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		status = n
	}
	games, err := s.Store.Games(r.Context(), status)
	if err != nil {
		s.Log.Errorw("list games failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	views := make([]gameListView, 0, len(games))
	for _, g := range games {
		v, err := s.gameListView(r.Context(), g)
		if err != nil {
			s.Log.Errorw("game view failed", "game", g.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

type createGameRequest struct {
	Difficulty int `json:"difficulty"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	var req createGameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := s.Games.Create(r.Context(), claims.UserID, req.Difficulty)
	if err != nil {
		writeError(w, gameErrStatus(err), err.Error())
		return
	}
	view, err := s.gameDetailView(r.Context(), g)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) gameFromURL(w http.ResponseWriter, r *http.Request) (*store.Game, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return nil, false
	}
	g, err := s.Store.GameByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return g, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.gameFromURL(w, r)
	if !ok {
		return
	}
	view, err := s.gameDetailView(r.Context(), g)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleDeleteGame allows the creator or an admin to delete a game, but only
// while it is still waiting for players.
func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	g, ok := s.gameFromURL(w, r)
	if !ok {
		return
	}
	if g.Status != store.StatusWaiting {
		writeError(w, http.StatusForbidden, "only waiting games can be deleted")
		return
	}
	if claims.Role != store.RoleAdmin && g.CreatorID != claims.UserID {
		writeError(w, http.StatusForbidden, "only the creator or an admin can delete this game")
		return
	}
	if err := s.Store.DeleteGame(r.Context(), g.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	g, ok := s.gameFromURL(w, r)
	if !ok {
		return
	}
	player, g, err := s.Games.Join(r.Context(), claims.UserID, g.ID)
	if err != nil {
		writeError(w, gameErrStatus(err), err.Error())
		return
	}
	player.Username = claims.Username
	view, err := s.gameDetailView(r.Context(), g)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"player": newPlayerView(player),
		"game":   view,
	})
}

type guessRequest struct {
	Letter string `json:"letter"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	var req guessRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	letter := []rune(req.Letter)
	if len(letter) != 1 || !unicode.IsLetter(letter[0]) {
		writeError(w, http.StatusBadRequest, "letter must be a single alphabetic character")
		return
	}
	result, err := s.Games.GuessLetter(r.Context(), claims.UserID, req.Letter)
	if err != nil {
		writeError(w, gameErrStatus(err), err.Error())
		return
	}
	view, verr := s.gameDetailView(r.Context(), result.Game)
	if verr != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if result.Finished {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Correct! You win the game",
			"game":    view,
		})
		return
	}
	msg := "Incorrect guess"
	if result.Hit {
		msg = "Correct guess"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": msg,
		"points": result.Points,
		"game":   view,
	})
}

type wordGuessRequest struct {
	Word string `json:"word"`
}

func (s *Server) handleGuessWord(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	var req wordGuessRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if n := utf8.RuneCountInString(req.Word); n < 3 || n > 100 {
		writeError(w, http.StatusBadRequest, "word must be between 3 and 100 characters")
		return
	}
	result, err := s.Games.GuessWord(r.Context(), claims.UserID, req.Word)
	if err != nil {
		writeError(w, gameErrStatus(err), err.Error())
		return
	}
	view, verr := s.gameDetailView(r.Context(), result.Game)
	if verr != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	msg := "Incorrect guess. You lost the game"
	if result.Correct {
		msg = "Correct! You win the game"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": msg,
		"game":    view,
	})
}

func (s *Server) handleRevealLetter(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	result, err := s.Games.RevealLetter(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, gameErrStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGameGuesses lists a game's guess history, newest first.
func (s *Server) handleGameGuesses(w http.ResponseWriter, r *http.Request) {
	g, ok := s.gameFromURL(w, r)
	if !ok {
		return
	}
	guesses, err := s.Store.GuessesForGame(r.Context(), g.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	views := make([]guessView, 0, len(guesses))
	for _, gr := range guesses {
		views = append(views, guessView{
			ID:        gr.ID,
			Player:    gr.Username,
			Letter:    gr.Letter,
			IsCorrect: gr.IsCorrect,
			Points:    gr.Points,
			Timestamp: gr.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// handleUserHistory lists the caller's completed-game records.
func (s *Server) handleUserHistory(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	records, err := s.Store.GameRecordsForUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}
