package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MoFaraz/guess-words/internal/auth"
	"github.com/MoFaraz/guess-words/internal/config"
	"github.com/MoFaraz/guess-words/internal/matcher"
)

type skipSet struct {
	cfg *config.Config
	m   matcher.Matcher
}

// skipLogMatcher returns the matcher for the current config snapshot,
// rebuilding it only after a config reload swaps the snapshot.
func (s *Server) skipLogMatcher() matcher.Matcher {
	cfg := s.Cfg()
	if v, ok := s.skipLogs.Load().(*skipSet); ok && v.cfg == cfg {
		return v.m
	}
	m := matcher.New(cfg.Logging.SkipPaths)
	s.skipLogs.Store(&skipSet{cfg: cfg, m: m})
	return m
}

// requestLogger logs method, path, status, duration and caller for every API
// request. Paths matching the configured skip globs (static assets and the
// like) are not logged.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if s.skipLogMatcher().Match(r.URL.Path) {
			return
		}

		user := "anonymous"
		if claims, ok := auth.FromContext(r.Context()); ok {
			user = claims.Username
		}
		s.Log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", float64(time.Since(start).Microseconds())/1000,
			"user", user,
			"ip", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
