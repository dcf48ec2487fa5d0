package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/qupid-app/qupid-backend/internal/config"
)

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, levelFromString("debug"))
	assert.Equal(t, zapcore.WarnLevel, levelFromString("warning"))
	assert.Equal(t, zapcore.ErrorLevel, levelFromString("error"))
	assert.Equal(t, zapcore.InfoLevel, levelFromString("nonsense"))
}

func TestNew(t *testing.T) {
	t.Run("development", func(t *testing.T) {
		lg, err := New(config.LoggingConfig{Level: "debug", Dev: true})
		require.NoError(t, err)
		assert.True(t, lg.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("production writes to the rotated file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "qupid.log")

		lg, err := New(config.LoggingConfig{Level: "warn", File: path})
		require.NoError(t, err)
		assert.False(t, lg.Core().Enabled(zapcore.InfoLevel))

		lg.Warn("quota exhausted")
		_ = lg.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "quota exhausted")
	})
}
