package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Default()
	require.Equal(t, "127.0.0.1:8000", c.Server.Addr, "production binds loopback only")
	require.False(t, c.Server.Debug)
	require.Equal(t, "redis://redis:6379/0", c.Redis.URL)
	require.Equal(t, 15*time.Minute, c.Auth.AccessTTL)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default().Server.Addr, c.Server.Addr)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: 0.0.0.0:9000
  debug: true
database:
  path: /tmp/test.db
auth:
  secret: filesecret
  accessTTL: 5m
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", c.Server.Addr)
	require.True(t, c.Server.Debug)
	require.Equal(t, "/tmp/test.db", c.Database.Path)
	require.Equal(t, "filesecret", c.Auth.Secret)
	require.Equal(t, 5*time.Minute, c.Auth.AccessTTL)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: 1.2.3.4:1\n"), 0o644))

	t.Setenv("WORDGUESS_ADDR", "0.0.0.0:8000")
	t.Setenv("SECRET_KEY", "envsecret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("WORDGUESS_ACCESS_TTL", "1h")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8000", c.Server.Addr)
	require.Equal(t, "envsecret", c.Auth.Secret)
	require.Equal(t, "redis://localhost:6379/1", c.Redis.URL)
	require.Equal(t, time.Hour, c.Auth.AccessTTL)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
