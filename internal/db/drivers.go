package db

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
)

var ErrDriverUnavailable = errors.New("database driver is not available")

// linkedDrivers maps the database/sql driver names this program knows how to
// link to the Go package that registers them and the build tag that leaves it out.
var linkedDrivers = map[string]struct {
	module   string
	buildTag string
}{
	"pgx":      {module: "github.com/jackc/pgx/v5/stdlib", buildTag: "nopgx"},
	"pgx/v5":   {module: "github.com/jackc/pgx/v5/stdlib", buildTag: "nopgx"},
	"postgres": {module: "github.com/lib/pq", buildTag: "nopq"},
}

// openers holds driver specific open functions, registered by the files that
// link the driver in. Drivers without one are opened with sql.Open.
var openers = map[string]opener{}

type opener func(databaseURL string, opts options) (*sql.DB, error)

func registerOpener(name string, open opener) {
	openers[name] = open
}

// Available reports whether a database/sql driver with the given name is linked
// into this binary.
func Available(name string) bool {
	return slices.Contains(sql.Drivers(), name)
}

// InstallHint returns the instruction that adds the driver to the build.
func InstallHint(name string) string {
	linked, ok := linkedDrivers[name]
	if !ok {
		return fmt.Sprintf("go get the module registering the %q database/sql driver and import it in internal/db", name)
	}

	return fmt.Sprintf("go get %s, then rebuild without the %q build tag", linked.module, linked.buildTag)
}
