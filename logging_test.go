package lightvol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLogger_DebugToggle(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core, logs := observer.New(level)
	l := newZapLogger("lightvol", level, core)

	l.Debugf("hidden %d", 1)
	assert.Equal(t, 0, logs.Len(), "debug output must be suppressed by default")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)

	l.Infof("info")
	l.Warnf("warn")
	l.Errorf("error %s", "x")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, "shown 2", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "lightvol", entries[0].LoggerName)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "error x", entries[3].Message)

	l.SetDebug(false)
	assert.False(t, l.DebugEnabled())
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	require.NotNil(t, l)
	assert.False(t, l.DebugEnabled())
	l.Errorf("discarded")

	d := NewDefaultLogger("", false)
	assert.Same(t, d, OrNop(d))
}
