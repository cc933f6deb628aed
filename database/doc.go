// Package database connects the game server to its SQL database and keeps the
// queries it runs in step with the schema it finds there.
//
// Three dialects are built in: MySQL (the default), PostgreSQL and SQLite.
// Other database/sql drivers can be used by name or loaded from a Go plugin.
//
// # Usage
//
//	m, err := database.Initialize(ctx, database.Config{URL: "sqlite:socdata.sqlite"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Cleanup(true)
//
//	store := database.NewStore(m)
//	nick, ok, err := store.Authenticate(ctx, "alice", "secret")
//
// Initialize:
//   - Resolves the dialect from the type, driver or URL
//   - Loads the driver and opens a single connection
//   - Runs the setup script, if one is configured
//   - Detects the schema version and selects matching statements
//
// Every Store call first checks the connection and reopens it if an earlier
// statement failed.
//
// # Schema versions
//
// SchemaOriginal compares nicknames exactly. Schema1200 adds users.nickname_lc
// and the unique index users__l so nicknames are unique regardless of case.
// Upgrader moves a database from one to the other, refusing to start while
// nicknames collide (see PrecheckError).
//
// # Subpackages
//
//   - database/mysql: MySQL using go-sql-driver/mysql
//   - database/postgres: PostgreSQL using pgx
//   - database/sqlite: SQLite using modernc.org/sqlite
package database
