package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sagarc03/settlersdb/database/sqlite"
	"github.com/stretchr/testify/require"
)

// openTestDB opens a database file in a temp dir and closes it when the test
// ends.
func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	url := "sqlite:" + filepath.Join(t.TempDir(), "test.sqlite")
	db, err := sqlite.Open(url)
	require.NoError(t, err, "failed to open")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.PingContext(context.Background()))
	return db, url
}

func exec(t *testing.T, db *sql.DB, query string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), query)
	require.NoError(t, err)
}
