package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "data/teachmate.json", cfg.DataFile)
	assert.Equal(t, "teachmate:roster", cfg.Redis.Key)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 500, cfg.History.Limit)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATA_FILE", "/tmp/roster.json")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("ENABLE_SNAPSHOT_CACHE", "true")
	t.Setenv("REDIS_SNAPSHOT_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/roster.json", cfg.DataFile)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
}

func TestValidateRejectsUnknownEnv(t *testing.T) {
	cfg := &Config{Env: "staging", DataFile: "x.json", Export: ExportConfig{Dir: "out"}}
	require.Error(t, cfg.Validate())
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("bogus", time.Minute))
	assert.Equal(t, 2*time.Hour, parseDuration("2h", time.Minute))
}
