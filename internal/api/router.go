package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MoFaraz/guess-words/internal/auth"
	"github.com/MoFaraz/guess-words/internal/cache"
	"github.com/MoFaraz/guess-words/internal/config"
	"github.com/MoFaraz/guess-words/internal/game"
	"github.com/MoFaraz/guess-words/internal/store"
	"github.com/MoFaraz/guess-words/internal/throttle"
)

// Server holds the wired dependencies for the HTTP API.
type Server struct {
	Cfg     func() *config.Config
	Log     *zap.SugaredLogger
	Store   *store.Store
	Games   *game.Service
	Auth    *auth.Auth
	Limiter *throttle.Limiter
	Board   *cache.Leaderboard
	RDB     *redis.Client

	skipLogs atomic.Value // *skipSet
}

// Router builds the chi router with the full middleware stack and all
// API routes under /api/v1.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(metricsMiddleware)
	r.Use(s.Auth.Middleware)
	r.Use(s.requestLogger)

	r.Get("/api/v1/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/v1/readyz", s.handleReadyz)
	r.Handle("/metrics", MetricsHandler())

	anonT := s.Limiter.Middleware(throttle.Anon)
	userT := s.Limiter.Middleware(throttle.UserDefault)
	actionT := s.Limiter.Middleware(throttle.GameAction)
	createT := s.Limiter.Middleware(throttle.GameCreate)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/accounts", func(a chi.Router) {
			a.With(anonT).Post("/register", s.handleRegister)
			a.With(anonT).Post("/login", s.handleLogin)
			a.With(anonT).Post("/refresh", s.handleRefresh)
			a.Group(func(g chi.Router) {
				g.Use(auth.RequireUser, userT)
				g.Get("/profile", s.handleProfile)
				g.Patch("/profile", s.handleUpdateProfile)
			})
			a.Group(func(g chi.Router) {
				g.Use(auth.RequireAdmin, userT)
				g.Post("/{id}/kick", s.handleKickUser)
				g.Post("/{id}/reset-coins", s.handleResetCoins)
			})
		})

		api.Route("/games", func(g chi.Router) {
			g.Use(auth.RequireUser)
			g.With(userT).Get("/", s.handleListGames)
			g.With(createT).Post("/", s.handleCreateGame)
			g.With(actionT).Post("/guess", s.handleGuess)
			g.With(actionT).Post("/guess-word", s.handleGuessWord)
			g.With(actionT).Post("/reveal-letter", s.handleRevealLetter)
			g.With(userT).Get("/{id}", s.handleGetGame)
			g.With(userT).Delete("/{id}", s.handleDeleteGame)
			g.With(actionT).Post("/{id}/join", s.handleJoinGame)
			g.With(userT).Get("/{id}/history", s.handleGameGuesses)
		})

		api.Route("/wordbank", func(wb chi.Router) {
			wb.Use(auth.RequireAdmin, userT)
			wb.Get("/", s.handleListWords)
			wb.Post("/", s.handleCreateWord)
			wb.Get("/{id}", s.handleGetWord)
			wb.Put("/{id}", s.handleUpdateWord)
			wb.Delete("/{id}", s.handleDeleteWord)
		})

		api.With(auth.RequireUser, userT).Get("/history", s.handleUserHistory)
		api.With(anonT).Get("/leaderboard", s.handleLeaderboard)
	})

	return r
}

// handleReadyz verifies the database and Redis are reachable.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	if err := s.RDB.Ping(r.Context()).Err(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "redis unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
