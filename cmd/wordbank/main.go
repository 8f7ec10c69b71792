// Command wordbank clears and reseeds the word bank from a TOML word list.
// The dev compose runs it before the server so a fresh environment always
// has words to draw from.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/MoFaraz/guess-words/internal/config"
	"github.com/MoFaraz/guess-words/internal/store"
)

type wordList struct {
	Easy   []string `toml:"easy"`
	Medium []string `toml:"medium"`
	Hard   []string `toml:"hard"`
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	var (
		cfgPath   = flag.String("config", getenv("WORDGUESS_CONFIG", "/config/config.yaml"), "config file path")
		wordsPath = flag.String("words", "words.toml", "TOML word list")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		sugar.Fatalw("load config", "error", err)
	}

	var words wordList
	if _, err := toml.DecodeFile(*wordsPath, &words); err != nil {
		sugar.Fatalw("decode word list", "path", *wordsPath, "error", err)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		sugar.Fatalw("open database", "error", err)
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		sugar.Fatalw("apply migrations", "error", err)
	}

	if err := db.DeleteAllWords(ctx); err != nil {
		sugar.Fatalw("clear word bank", "error", err)
	}
	for difficulty, list := range map[int][]string{
		store.DifficultyEasy:   words.Easy,
		store.DifficultyMedium: words.Medium,
		store.DifficultyHard:   words.Hard,
	} {
		for _, w := range list {
			if err := db.CreateWord(ctx, &store.Word{Word: w, Difficulty: difficulty}); err != nil {
				sugar.Fatalw("insert word", "word", w, "error", err)
			}
		}
	}
	sugar.Infow("word bank seeded",
		"easy", len(words.Easy), "medium", len(words.Medium), "hard", len(words.Hard))
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
