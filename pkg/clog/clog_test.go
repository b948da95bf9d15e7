package clog

import (
	"bytes"
	"os"
	"testing"

	"github.com/apex/log"
	"github.com/stretchr/testify/require"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestContextLoggerWritesToContext(t *testing.T) {
	global := &bufferCloser{}
	users := &bufferCloser{}
	l := NewContextLogger(global)
	l.AddLoggingContext("users", users)

	l.UsingCtx("users").WithField("id", 3).Info("updated")
	l.UsingCtx("unknown").Info("fallback")

	require.Contains(t, users.String(), "INFO")
	require.Contains(t, users.String(), "updated")
	require.Contains(t, users.String(), "ctx=users id=3")
	require.Contains(t, global.String(), "ctx=unknown")
}

func TestContextLoggerLevels(t *testing.T) {
	l := NewContextLogger(&bufferCloser{})
	l.AddLoggingContext("projects", &bufferCloser{})
	l.AddLoggingContext("users", &bufferCloser{})

	require.NoError(t, l.SetLevelFromString("users", "debug"))
	require.Error(t, l.SetLevelFromString("users", "loud"))
	l.SetGlobalLoggerLevel(log.WarnLevel)

	require.Equal(t, log.DebugLevel, l.Level("users"))
	require.Equal(t, log.WarnLevel, l.Level("missing"))
	require.Equal(t, []ContextLevel{
		{Ctx: GlobalLoggerCtx, Level: "warn"},
		{Ctx: "projects", Level: "info"},
		{Ctx: "users", Level: "debug"},
	}, l.Levels())
}

func TestContextLoggerDropsBelowLevel(t *testing.T) {
	w := &bufferCloser{}
	l := NewContextLogger(w)

	l.Global().Debug("hidden")
	require.Empty(t, w.String())

	l.SetGlobalLoggerLevel(log.DebugLevel)
	l.Global().Debug("shown")
	require.Contains(t, w.String(), "DEBUG")
}

func TestSetGlobalOutput(t *testing.T) {
	first := &bufferCloser{}
	second := &bufferCloser{}
	l := NewContextLogger(first)

	require.NoError(t, l.SetGlobalOutput(second))
	require.True(t, first.closed)

	l.Global().Info("moved")
	require.Empty(t, first.String())
	require.Contains(t, second.String(), "moved")

	require.Error(t, l.SetOutput("nope", second))
}

func TestEnsureAndRemoveLoggingContext(t *testing.T) {
	l := NewContextLogger(os.Stdout)
	w := &bufferCloser{}

	l.EnsureLoggingContext("users", w)
	l.EnsureLoggingContext("users", &bufferCloser{})
	l.UsingCtx("users").Info("kept")
	require.Contains(t, w.String(), "kept")

	l.RemoveLoggingContext("users")
	require.True(t, w.closed)
	require.Len(t, l.Levels(), 1)
}
