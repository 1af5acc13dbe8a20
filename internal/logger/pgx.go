package logger

import (
	"context"
	"maps"
	"slices"

	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PgxLogger routes pgx trace events into l. Statement text is replaced by its
// length; the schema batch can be large and is already known to the caller.
func PgxLogger(l *zap.Logger) tracelog.Logger {
	l = l.Named("pgx")

	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		fields := make([]zap.Field, 0, len(data))
		for _, key := range slices.Sorted(maps.Keys(data)) {
			value := data[key]
			if key == "sql" {
				if s, ok := value.(string); ok {
					fields = append(fields, zap.Int("sql.bytes", len(s)))

					continue
				}
			}

			fields = append(fields, zap.Any(key, value))
		}

		l.Log(zapLevel(level), msg, fields...)
	})
}

func zapLevel(level tracelog.LogLevel) zapcore.Level {
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		return zapcore.DebugLevel
	case tracelog.LogLevelInfo:
		return zapcore.InfoLevel
	case tracelog.LogLevelWarn:
		return zapcore.WarnLevel
	case tracelog.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}
