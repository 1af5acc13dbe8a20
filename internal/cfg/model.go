package cfg

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3/lock"
)

const DatabaseURLEnv = "SUPABASE_DB_URL"

var ErrDatabaseURLMissing = errors.New(DatabaseURLEnv + " is not set")

type Config struct {
	DatabaseURL string `env:"SUPABASE_DB_URL,required,notEmpty"`

	// Driver is the database/sql driver name used to reach the database.
	Driver string `env:"SCHEMA_DB_DRIVER" envDefault:"pgx"`

	Debug bool `env:"SCHEMA_SETUP_DEBUG" envDefault:"false"`

	// Lock makes the applier hold a session advisory lock for the duration of the apply,
	// so two concurrent runs against one database serialize.
	Lock        bool          `env:"SCHEMA_LOCK" envDefault:"false"`
	LockID      int64         `env:"SCHEMA_LOCK_ID"`
	LockTimeout time.Duration `env:"SCHEMA_LOCK_TIMEOUT" envDefault:"1m"`
}

// Parse reads the configuration from environ. A missing or empty connection URL
// is reported as ErrDatabaseURLMissing.
func Parse(environ map[string]string) (Config, error) {
	config, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		var notSet env.VarIsNotSetError
		var empty env.EmptyVarError
		if (errors.As(err, &notSet) && notSet.Key == DatabaseURLEnv) ||
			(errors.As(err, &empty) && empty.Key == DatabaseURLEnv) {
			return Config{}, fmt.Errorf("%w: %w", ErrDatabaseURLMissing, err)
		}

		return Config{}, err
	}

	if config.LockID == 0 {
		config.LockID = lock.DefaultLockID
	}

	return config, nil
}

// Environ returns the process environment overlaid on the variables defined in
// dotenvPath. Process values win. A missing dotenv file is not an error.
func Environ(dotenvPath string) (map[string]string, error) {
	environ := map[string]string{}

	fileEnv, err := godotenv.Read(dotenvPath)
	switch {
	case err == nil:
		for key, value := range fileEnv {
			environ[key] = value
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
	}

	for key, value := range env.ToMap(os.Environ()) {
		environ[key] = value
	}

	return environ, nil
}
