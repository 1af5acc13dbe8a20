package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerConfig struct {
	ServiceName   string
	IsDevelopment bool
	InitialFields []zap.Field

	// Level is shared with the caller so verbosity can be raised after
	// configuration has been parsed.
	Level zap.AtomicLevel

	OutputPaths []string
	Cores       []zapcore.Core
}

func NewLogger(loggerConfig LoggerConfig) (*zap.Logger, error) {
	level := loggerConfig.Level
	if level == (zap.AtomicLevel{}) {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	outputPaths := loggerConfig.OutputPaths
	if len(outputPaths) == 0 {
		outputPaths = []string{"stderr"}
	}

	config := zap.Config{
		Level:             level,
		Development:       loggerConfig.IsDevelopment,
		DisableStacktrace: true,
		DisableCaller:     true,
		Sampling:          nil,
		Encoding:          "console",
		EncoderConfig:     GetEncoderConfig(zapcore.DefaultLineEnding),
		OutputPaths:       outputPaths,
		ErrorOutputPaths: []string{
			"stderr",
		},
	}

	cores := append([]zapcore.Core{}, loggerConfig.Cores...)

	logger, err := config.Build(
		zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(append(cores, c)...)
		}),
		zap.Fields(
			zap.String("service", loggerConfig.ServiceName),
			zap.Int("pid", os.Getpid()),
		),
		zap.Fields(loggerConfig.InitialFields...),
	)
	if err != nil {
		return nil, fmt.Errorf("error building logger: %w", err)
	}

	return logger, nil
}

func GetEncoderConfig(lineEnding string) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "timestamp",
		MessageKey:       "message",
		LevelKey:         "level",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		NameKey:          "logger",
		StacktraceKey:    "stacktrace",
		EncodeTime:       zapcore.RFC3339TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
		LineEnding:       lineEnding,
	}
}
