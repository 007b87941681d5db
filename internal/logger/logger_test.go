package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetLogLevelFromString(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warn":    WARN,
		"warning": WARN,
		"Error":   ERROR,
		"":        WARN,
		"bogus":   WARN,
	}
	for in, want := range cases {
		assert.Equal(t, want, GetLogLevelFromString(in), "level %q", in)
	}
}

func TestSetLoggerRoutesPackageFunctions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	Debugf("debug %d", 1)
	Infof("info %s", "x")
	Warn("warn")
	Errorf("error %v", "y")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, "debug 1", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "warn", entries[2].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestNilLoggerIsSilent(t *testing.T) {
	SetLogger(nil)
	assert.NotPanics(t, func() {
		Info("dropped")
		Errorf("dropped %d", 1)
		Sync()
	})
}
