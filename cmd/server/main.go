package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MoFaraz/guess-words/internal/api"
	"github.com/MoFaraz/guess-words/internal/auth"
	"github.com/MoFaraz/guess-words/internal/cache"
	"github.com/MoFaraz/guess-words/internal/config"
	"github.com/MoFaraz/guess-words/internal/game"
	"github.com/MoFaraz/guess-words/internal/store"
	"github.com/MoFaraz/guess-words/internal/throttle"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgPath := getenv("WORDGUESS_CONFIG", "/config/config.yaml")

	cfgState := config.NewState()
	if err := config.WatchFile(ctx, cfgPath, sugar, func(c *config.Config) {
		cfgState.ApplyNewConfig(c)
	}); err != nil {
		sugar.Warnw("config watcher disabled", "error", err)
		if c, err := config.Load(cfgPath); err == nil {
			cfgState.ApplyNewConfig(c)
		}
	}
	cfg := cfgState.Current()
	if cfg.Auth.Secret == "" {
		sugar.Fatalw("SECRET_KEY is required")
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		sugar.Fatalw("open database", "error", err)
	}
	defer db.Close()
	applied, err := db.Migrate(ctx)
	if err != nil {
		sugar.Fatalw("apply migrations", "error", err)
	}
	sugar.Infow("migrations applied", "count", applied)

	rdb, err := cache.Connect(ctx, cfg.Redis.URL, sugar)
	if err != nil {
		sugar.Fatalw("redis connect", "error", err)
	}
	defer rdb.Close()

	board := &cache.Leaderboard{
		RDB:    rdb,
		Store:  db,
		TTL:    cfg.Leaderboard.CacheTTL,
		Size:   game.LeaderboardSize,
		Logger: sugar,
	}
	games := &game.Service{
		Store:       db,
		Logger:      sugar,
		OnCompleted: board.Invalidate,
	}
	// periodic sweep so timed-out games complete without traffic
	games.StartSweeper(ctx, time.Minute)

	srv := &api.Server{
		Cfg:     cfgState.Current,
		Log:     sugar,
		Store:   db,
		Games:   games,
		Auth:    auth.New(cfg.Auth.Secret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL),
		Limiter: &throttle.Limiter{RDB: rdb, Logger: sugar},
		Board:   board,
		RDB:     rdb,
	}

	httpSrv := &http.Server{Addr: cfg.Server.Addr, Handler: srv.Router()}

	go func() {
		sugar.Infow("wordguess listening", "addr", httpSrv.Addr, "debug", cfg.Server.Debug)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server error", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
