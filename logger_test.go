package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Debug("matched %s", "/a")
	logger.Info("ready")
	logger.Warn("duplicate named routes definition: { name: %q }", "home")
	logger.Error("navigation failed: %v", assert.AnError)

	entries := logs.All()
	require.Len(t, entries, 4)

	tests := []struct {
		level   zapcore.Level
		message string
	}{
		{zapcore.DebugLevel, "matched /a"},
		{zapcore.InfoLevel, "ready"},
		{zapcore.WarnLevel, `duplicate named routes definition: { name: "home" }`},
		{zapcore.ErrorLevel, "navigation failed: " + assert.AnError.Error()},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.level, entries[i].Level)
		assert.Equal(t, tt.message, entries[i].Message)
		assert.Equal(t, "spa-router", entries[i].LoggerName)
	}
}

func TestNewZapLogger_Nil(t *testing.T) {
	logger := NewZapLogger(nil)
	assert.NotPanics(t, func() {
		logger.Warn("discarded %d", 1)
	})
}

func TestNewZapLogger_WiredIntoTable(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	_, err := BuildTable([]RouteConfig{
		{Path: "/a", Name: "dup"},
		{Path: "/b", Name: "dup"},
	}, WithTableLogger(NewZapLogger(zap.New(core))))
	require.NoError(t, err)

	entries := logs.FilterMessageSnippet("duplicate named routes").All()
	require.Len(t, entries, 1)
	assert.Equal(t, `duplicate named routes definition: { name: "dup", path: "/b" }`, entries[0].Message)
}

func TestWarnHelper(t *testing.T) {
	logger := NewMockLogger()

	warn(logger, true, "never %s", "logged")
	warn(logger, false, "logged %s", "once")
	warn(nil, false, "no logger")

	assert.Equal(t, []string{"logged once"}, logger.Messages("Warn"))
}

func TestMockLogger_Expectations(t *testing.T) {
	logger := NewMockLogger()
	logger.On("Error", "failed: %s", []any{"x"}).Once()

	logger.Error("failed: %s", "x")
	logger.Debug("unexpected but recorded")

	logger.AssertExpectations(t)
	assert.Equal(t, []string{"failed: x"}, logger.Messages("Error"))
	assert.Equal(t, []string{"unexpected but recorded"}, logger.Messages("Debug"))
}

type namedHooks struct{}

func (namedHooks) Guard(_, _ *Route, next Next) { next() }

func TestFuncName(t *testing.T) {
	var nilGuard NavigationGuard

	tests := []struct {
		name string
		fn   any
		want string
	}{
		{name: "nil", fn: nil, want: "<nil>"},
		{name: "typed nil func", fn: nilGuard, want: "<nil>"},
		{name: "not a func", fn: 42, want: "non-function"},
		{name: "named func", fn: printGuard, want: "printGuard"},
		{name: "method value", fn: namedHooks{}.Guard, want: "namedHooks.Guard"},
		{name: "closure", fn: func() {}, want: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, funcName(tt.fn))
		})
	}
}
