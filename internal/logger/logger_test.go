package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"aethermoor-server/internal/config"
)

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	l, err := New(&config.Config{LogLevel: "chatty"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_EncodingNormalized(t *testing.T) {
	l, err := New(&config.Config{LogLevel: "debug", LogEncoding: "Console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	// Неизвестный encoding сводится к json, а не к ошибке старта
	_, err = New(&config.Config{LogEncoding: "xml"})
	require.NoError(t, err)
}
