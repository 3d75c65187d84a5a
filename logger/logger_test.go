package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(5))
}

func TestInitialize(t *testing.T) {
	require.NoError(t, Initialize(false, 1))
	require.NotNil(t, Logger)
	assert.False(t, JSONOutput)

	require.NoError(t, Initialize(true, 0))
	assert.True(t, JSONOutput)

	// Logging through the package funcs must not panic.
	Infow("initialized", "verbosity", 0)
	Debugf("debug %s", "detail")
	Cleanup()
}

func TestNopLoggerBeforeInitialize(t *testing.T) {
	// The package-level funcs are safe even if Initialize was never
	// called (init installs a nop logger).
	Warnf("should not panic")
	Errorw("should not panic", "key", "value")
}
