//go:build !nopgx

package db

import (
	"database/sql"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/multitracer"
	pgxstdlib "github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"

	"github.com/jrush-vj/note-taking/internal/logger"
)

func init() {
	registerOpener("pgx", openPgx)
	registerOpener("pgx/v5", openPgx)
}

func openPgx(databaseURL string, opts options) (*sql.DB, error) {
	config, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	if opts.applicationName != "" {
		if _, ok := config.RuntimeParams["application_name"]; !ok {
			config.RuntimeParams["application_name"] = opts.applicationName
		}
	}

	// expose otel traces
	tracers := []pgx.QueryTracer{otelpgx.NewTracer()}
	if opts.logger != nil {
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   logger.PgxLogger(opts.logger),
			LogLevel: tracelog.LogLevelDebug,
		})
	}
	config.Tracer = multitracer.New(tracers...)

	return pgxstdlib.OpenDB(*config), nil
}
