package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/teachmate/pkg/config"
)

func TestNewWritesToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	cfg := &config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "debug", Format: "json", File: path}}

	logr, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, logr.Core().Enabled(zapcore.DebugLevel))

	logr.Info("command_executed")
	_ = logr.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"timestamp"`)
	assert.Contains(t, string(raw), "command_executed")
}

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	cfg := &config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "loud", Format: "console", File: "-"}}

	logr, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, logr.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logr.Core().Enabled(zapcore.InfoLevel))
}
