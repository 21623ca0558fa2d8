package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	require.NoError(t, Load("config.yaml"))
	assert.Equal(t, "!", C.Bot.Prefix)
	assert.Equal(t, 6, C.Bot.Cutoffs["overwatch"])
	assert.Equal(t, "memory", C.Storage.Driver)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("QUEUEBOT_REDIS_ADDR", "redis:6380")
	t.Setenv("QUEUEBOT_STORAGE_DRIVER", "redis")
	require.NoError(t, Load("config.yaml"))
	assert.Equal(t, "redis:6380", C.Redis.Addr)
	assert.Equal(t, "redis", C.Storage.Driver)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	require.NoError(t, Load(""))
	assert.Equal(t, ":8080", C.Server.Port)
	assert.Equal(t, "!", C.Bot.Prefix)
	assert.Equal(t, "info", C.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bot: [unterminated"), 0o600))
	assert.Error(t, Load(path))
}
