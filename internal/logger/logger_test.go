package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes human readable lines with service fields", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out.log")
		runID := uuid.New()

		l, err := NewLogger(LoggerConfig{
			ServiceName:   "supabase-setup",
			InitialFields: []zap.Field{WithRunID(runID)},
			OutputPaths:   []string{out},
		})
		require.NoError(t, err)

		l.Info("applying schema", WithDriver("pgx"))
		require.NoError(t, l.Sync())

		content, err := os.ReadFile(out)
		require.NoError(t, err)

		line := string(content)
		assert.False(t, strings.HasPrefix(line, "{"), "console encoding expected, got %q", line)
		assert.Contains(t, line, "INFO")
		assert.Contains(t, line, "applying schema")
		assert.Contains(t, line, `"service": "supabase-setup"`)
		assert.Contains(t, line, runID.String())
		assert.Contains(t, line, `"db.driver": "pgx"`)
	})

	t.Run("level can be raised after construction", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out.log")
		level := zap.NewAtomicLevelAt(zap.InfoLevel)

		l, err := NewLogger(LoggerConfig{ServiceName: "test", Level: level, OutputPaths: []string{out}})
		require.NoError(t, err)

		l.Debug("hidden")
		level.SetLevel(zap.DebugLevel)
		l.Debug("visible")
		require.NoError(t, l.Sync())

		content, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "hidden")
		assert.Contains(t, string(content), "visible")
	})

	t.Run("extra cores receive every entry", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)

		l, err := NewLogger(LoggerConfig{
			ServiceName: "test",
			OutputPaths: []string{filepath.Join(t.TempDir(), "out.log")},
			Cores:       []zapcore.Core{core},
		})
		require.NoError(t, err)

		l.Info("hello")
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "hello", logs.All()[0].Message)
	})
}

func TestPgxLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := PgxLogger(zap.New(core))

	l.Log(t.Context(), tracelog.LogLevelInfo, "Exec", map[string]any{
		"sql":        "CREATE TABLE IF NOT EXISTS t(id INT);",
		"commandTag": "CREATE TABLE",
	})
	l.Log(t.Context(), tracelog.LogLevelError, "Exec", map[string]any{"err": "boom"})

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, zapcore.InfoLevel, first.Level)
	assert.Equal(t, "pgx", first.LoggerName)
	fields := first.ContextMap()
	assert.EqualValues(t, len("CREATE TABLE IF NOT EXISTS t(id INT);"), fields["sql.bytes"])
	assert.NotContains(t, fields, "sql")
	assert.Equal(t, "CREATE TABLE", fields["commandTag"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
