package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sagarc03/settlersdb/database"
	"github.com/sagarc03/settlersdb/database/sqlite"
	"github.com/stretchr/testify/require"
)

// latestScript is the shipped SQLite setup script.
var latestScript = filepath.Join("..", "sql", "tables-sqlite.sql")

// originalSchema creates the tables as they were before nickname_lc.
var originalSchema = []string{
	`CREATE TABLE users (nickname VARCHAR(20) NOT NULL PRIMARY KEY, host VARCHAR(50), password VARCHAR(20), email VARCHAR(50), lastlogin DATE)`,
	`CREATE TABLE logins (nickname VARCHAR(20), host VARCHAR(50), lastlogin DATE)`,
	`CREATE TABLE games (gamename VARCHAR(20), player1 VARCHAR(20), player2 VARCHAR(20), player3 VARCHAR(20), player4 VARCHAR(20),
		score1 SMALLINT, score2 SMALLINT, score3 SMALLINT, score4 SMALLINT, starttime TIMESTAMP)`,
}

const robotParamsTable = `CREATE TABLE robotparams (robotname VARCHAR(20) NOT NULL PRIMARY KEY, maxgamelength INT, maxeta INT,
	etabonusfactor FLOAT, adversarialfactor FLOAT, leaderadversarialfactor FLOAT, devcardmultiplier FLOAT,
	threatmultiplier FLOAT, strategytype INT, starttime TIMESTAMP, endtime TIMESTAMP, gameswon INT, gameslost INT, tradeflag SMALLINT)`

// newSQLiteConfig returns a config for a fresh database file.
func newSQLiteConfig(t *testing.T) database.Config {
	t.Helper()
	return database.Config{URL: "sqlite:" + filepath.Join(t.TempDir(), "socdata.sqlite")}
}

// rawDB opens a second handle on the config's database for seeding and
// inspection.
func rawDB(t *testing.T, cfg database.Config) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(cfg.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func execAll(t *testing.T, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, q := range stmts {
		_, err := db.ExecContext(context.Background(), q)
		require.NoError(t, err, q)
	}
}

// seedOriginal creates the original schema with the given nicknames, each
// with password "pw".
func seedOriginal(t *testing.T, cfg database.Config, nicknames ...string) {
	t.Helper()

	db := rawDB(t, cfg)
	execAll(t, db, originalSchema...)
	for _, n := range nicknames {
		_, err := db.ExecContext(context.Background(),
			`INSERT INTO users(nickname,host,password) VALUES (?,?,?)`, n, "localhost", "pw")
		require.NoError(t, err)
	}
}

// initManager initializes cfg and shuts the Manager down when the test ends.
func initManager(t *testing.T, cfg database.Config) *database.Manager {
	t.Helper()

	m, err := database.Initialize(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Cleanup(true) })
	return m
}

// latestStore returns a Store on a database built by the shipped setup
// script.
func latestStore(t *testing.T) (*database.Store, *sql.DB) {
	t.Helper()

	cfg := newSQLiteConfig(t)
	cfg.SetupScript = latestScript
	cfg.SaveGames = true
	m := initManager(t, cfg)
	return database.NewStore(m), rawDB(t, cfg)
}

// writeScript writes a script to a temp file and returns its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "setup.sql")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func nicknames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("User%03d", i)
	}
	return names
}
