package db

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

type options struct {
	applicationName string
	logger          *zap.Logger
}

type Option func(opts *options)

// WithApplicationName sets the application_name reported to the server unless the
// connection URL already carries one.
func WithApplicationName(name string) Option {
	return func(opts *options) {
		opts.applicationName = name
	}
}

// WithQueryLogger traces connection and statement events to l.
func WithQueryLogger(l *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = l
	}
}

// Open returns a handle for databaseURL using the named driver. No connection is
// made until the handle is used. The handle never holds more than one connection.
func Open(driverName, databaseURL string, opts ...Option) (*sql.DB, error) {
	if !Available(driverName) {
		return nil, fmt.Errorf("%w: %q", ErrDriverUnavailable, driverName)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var (
		db  *sql.DB
		err error
	)
	if open, ok := openers[driverName]; ok {
		db, err = open(databaseURL, o)
	} else {
		db, err = sql.Open(driverName, databaseURL)
	}
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, nil
}
