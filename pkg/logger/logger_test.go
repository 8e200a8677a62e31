package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, getLogLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, getLogLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, getLogLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, getLogLevel("nonsense"))
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug", "console")
	assert.NoError(t, err)
	assert.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = NewLogger("error", "json")
	assert.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
}
