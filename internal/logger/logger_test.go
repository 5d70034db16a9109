package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLevels(t *testing.T) {
	require.NoError(t, Init("debug", true))
	assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("warn", false))
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Log.Core().Enabled(zapcore.WarnLevel))

	// unknown levels fall back to info
	require.NoError(t, Init("loud", false))
	assert.True(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, Log.Core().Enabled(zapcore.DebugLevel))
}

func TestGetLoggerInitializesLazily(t *testing.T) {
	Log, Sugar = nil, nil
	l := GetLogger("test")
	require.NotNil(t, l)
	assert.NotNil(t, Log)
	l.Infow("hello", "k", "v")
	Sync()
}
