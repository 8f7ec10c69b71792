package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	// Addr defaults to loopback; the dev compose overrides it to 0.0.0.0:8000.
	Addr  string `yaml:"addr"`
	Debug bool   `yaml:"debug"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type AuthConfig struct {
	Secret     string        `yaml:"secret"`
	AccessTTL  time.Duration `yaml:"accessTTL"`
	RefreshTTL time.Duration `yaml:"refreshTTL"`
}

type LoggingConfig struct {
	// SkipPaths are doublestar globs; matching requests are not access-logged.
	SkipPaths []string `yaml:"skipPaths"`
}

type LeaderboardConfig struct {
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Auth        AuthConfig        `yaml:"auth"`
	Logging     LoggingConfig     `yaml:"logging"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

func Default() *Config {
	c := &Config{}
	c.Server.Addr = "127.0.0.1:8000"
	c.Database.Path = "wordguess.db"
	c.Redis.URL = "redis://redis:6379/0"
	c.Auth.AccessTTL = 15 * time.Minute
	c.Auth.RefreshTTL = 24 * time.Hour
	c.Logging.SkipPaths = []string{"/static/**", "/media/**", "**/*.js", "**/*.css", "**/*.ico", "**/*.png", "**/*.svg"}
	c.Leaderboard.CacheTTL = 30 * time.Second
	return c
}

type State struct {
	cfg atomic.Value // *Config
}

func NewState() *State { s := &State{}; s.cfg.Store(Default()); return s }

func (s *State) Current() *Config { return s.cfg.Load().(*Config) }

func (s *State) ApplyNewConfig(c *Config) { s.cfg.Store(c) }

// Load reads the YAML file at path and applies environment overrides on top.
// A missing file is not an error; env-only configuration is the compose-level
// interface.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	applyEnv(c)
	return c, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("WORDGUESS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("WORDGUESS_DEBUG"); v != "" {
		c.Server.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("WORDGUESS_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("WORDGUESS_ACCESS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Auth.AccessTTL = d
		}
	}
	if v := os.Getenv("WORDGUESS_REFRESH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Auth.RefreshTTL = d
		}
	}
}

// WatchFile loads the config once, then reloads it whenever the file changes.
func WatchFile(ctx context.Context, path string, logger *zap.SugaredLogger, onChange func(*Config)) error {
	if cfg, err := Load(path); err == nil {
		onChange(cfg)
	} else {
		logger.Warnw("failed to load initial config", "path", path, "error", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		for {
			select {
			case ev := <-w.Events:
				if strings.HasSuffix(ev.Name, filepath.Base(path)) {
					time.Sleep(200 * time.Millisecond)
					if cfg, err := Load(path); err == nil {
						onChange(cfg)
					} else {
						logger.Warnw("config reload failed", "error", err)
					}
				}
			case err := <-w.Errors:
				logger.Warnw("config watch error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
