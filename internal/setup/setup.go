package setup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jrush-vj/note-taking/internal/applier"
	"github.com/jrush-vj/note-taking/internal/cfg"
	"github.com/jrush-vj/note-taking/internal/db"
	"github.com/jrush-vj/note-taking/internal/db/dberrors"
	"github.com/jrush-vj/note-taking/internal/logger"
	"github.com/jrush-vj/note-taking/internal/schema"
)

const ServiceName = "supabase-setup"

// Process exit codes. A failed connection or statement shares code 1 with a
// missing schema file.
const (
	ExitOK            = 0
	ExitSchemaMissing = 1
	ExitConfigMissing = 2
	ExitDriverMissing = 3
	ExitFailure       = 1
)

type Options struct {
	// Root is the install root holding supabase/schema.sql and an optional .env.
	Root string

	// Environ supplies the variables configuration is parsed from. It is only
	// called once the schema file is known to exist.
	Environ func() (map[string]string, error)

	// Open returns the database handle for a parsed configuration.
	Open func(config cfg.Config, l *zap.Logger) (*sql.DB, error)

	Stdout io.Writer
	Stderr io.Writer

	Logger *zap.Logger
	// Level, when set, is raised to debug if the configuration asks for it.
	Level zap.AtomicLevel
}

func (o Options) withDefaults() Options {
	if o.Environ == nil {
		dotenvPath := filepath.Join(o.Root, ".env")
		o.Environ = func() (map[string]string, error) {
			return cfg.Environ(dotenvPath)
		}
	}
	if o.Open == nil {
		o.Open = Open
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	return o
}

// Open connects with the configured driver, tracing statements when debug
// logging is on.
func Open(config cfg.Config, l *zap.Logger) (*sql.DB, error) {
	opts := []db.Option{db.WithApplicationName(ServiceName)}
	if config.Debug {
		opts = append(opts, db.WithQueryLogger(l))
	}

	return db.Open(config.Driver, config.DatabaseURL, opts...)
}

// Run applies the schema under opts.Root and returns the process exit code.
func Run(ctx context.Context, opts Options) int {
	opts = opts.withDefaults()
	stdout := opts.Stdout

	schemaPath := schema.Path(opts.Root)
	if !schema.Exists(schemaPath) {
		fmt.Fprintf(stdout, "schema.sql not found at: %s\n", schemaPath)

		return ExitSchemaMissing
	}

	content, err := schema.Read(schemaPath)
	if err != nil {
		fmt.Fprintln(opts.Stderr, err)

		return ExitFailure
	}

	environ, err := opts.Environ()
	if err != nil {
		fmt.Fprintln(stdout, err)

		return ExitConfigMissing
	}

	config, err := cfg.Parse(environ)
	if errors.Is(err, cfg.ErrDatabaseURLMissing) {
		printConnectionHelp(stdout)

		return ExitConfigMissing
	}
	if err != nil {
		fmt.Fprintf(stdout, "Invalid configuration: %v\n", err)

		return ExitConfigMissing
	}

	if config.Debug && opts.Level != (zap.AtomicLevel{}) {
		opts.Level.SetLevel(zap.DebugLevel)
	}

	l := opts.Logger
	l.Debug("schema loaded",
		logger.WithInstallRoot(opts.Root),
		logger.WithSchemaPath(schemaPath),
		logger.WithSchemaSize(len(content)),
		logger.WithDriver(config.Driver),
	)

	if !db.Available(config.Driver) {
		fmt.Fprintf(stdout, "Missing dependency: %s\n", config.Driver)
		fmt.Fprintf(stdout, "Install with: %s\n", db.InstallHint(config.Driver))

		return ExitDriverMissing
	}

	fmt.Fprintf(stdout, "Applying %s ...\n", schema.RelPath())

	if err := apply(ctx, opts, config, content); err != nil {
		l.Debug("schema apply failed", dberrors.Fields(err)...)
		fmt.Fprintln(opts.Stderr, err)

		return ExitFailure
	}

	fmt.Fprintln(stdout, "Done.")

	return ExitOK
}

func apply(ctx context.Context, opts Options, config cfg.Config, content string) error {
	l := opts.Logger

	database, err := opts.Open(config, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			l.Warn("failed to close database", zap.Error(err))
		}
	}()

	applierOpts := []applier.Option{applier.WithLogger(l)}
	if config.Lock {
		applierOpts = append(applierOpts, applier.WithSessionLock(config.LockID, config.LockTimeout))
	}

	a, err := applier.New(database, applierOpts...)
	if err != nil {
		return err
	}

	return a.Apply(ctx, content)
}

func printConnectionHelp(w io.Writer) {
	fmt.Fprintf(w, "%s is not set.\n", cfg.DatabaseURLEnv)
	fmt.Fprintf(w, "\nOption A (automatic): set %s and re-run:\n", cfg.DatabaseURLEnv)
	fmt.Fprintf(w, "  export %s='postgres://postgres:<PASSWORD>@db.<project-ref>.supabase.co:5432/postgres'\n", cfg.DatabaseURLEnv)
	fmt.Fprintln(w, "  go run ./scripts/supabase-setup")
	fmt.Fprintf(w, "\nOption B (manual): paste the SQL from %s into the Supabase SQL editor.\n", schema.RelPath())
}
