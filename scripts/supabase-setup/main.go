package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jrush-vj/note-taking/internal/logger"
	"github.com/jrush-vj/note-taking/internal/schema"
	"github.com/jrush-vj/note-taking/internal/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := run(ctx)

	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)

	l, err := logger.NewLogger(logger.LoggerConfig{
		ServiceName:   setup.ServiceName,
		Level:         level,
		InitialFields: []zap.Field{logger.WithRunID(uuid.New())},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)

		return setup.ExitFailure
	}
	defer func() {
		_ = l.Sync()
	}()

	root, err := schema.InstallRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return setup.ExitFailure
	}

	return setup.Run(ctx, setup.Options{
		Root:   root,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: l,
		Level:  level,
	})
}
