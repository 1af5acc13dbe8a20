package testutils

import (
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// SetupAuthSchema creates the parts of the Supabase auth schema that
// supabase/schema.sql depends on: the auth.users table, auth.uid() and the
// authenticated role.
func SetupAuthSchema(t *testing.T, connStr string) {
	t.Helper()

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err, "Failed to open DB")
	defer func() {
		_ = db.Close()
	}()

	var exists bool
	err = db.QueryRowContext(t.Context(),
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'auth' AND table_name = 'users')`,
	).Scan(&exists)
	require.NoError(t, err, "Failed to query auth.users")

	if exists {
		return
	}

	statements := []string{
		`CREATE SCHEMA IF NOT EXISTS auth;`,
		`CREATE ROLE authenticated;`,
		`CREATE TABLE IF NOT EXISTS auth.users (id uuid NOT NULL DEFAULT gen_random_uuid(), email text NOT NULL, PRIMARY KEY (id));`,
		`CREATE FUNCTION auth.uid() RETURNS uuid AS $func$
		BEGIN
			RETURN gen_random_uuid();
		END;
		$func$ LANGUAGE plpgsql;`,
	}
	for _, statement := range statements {
		_, err := db.ExecContext(t.Context(), statement)
		require.NoError(t, err, "Failed to prepare auth schema: %s", statement)
	}
}
