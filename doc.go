// Package settlersdb provides the persistent storage layer of a multiplayer
// board game server: accounts, login history, finished game results and
// robot tuning parameters.
//
// The root package holds the domain types and the Store interface the game
// server programs against. The database package implements Store on top of
// MySQL, PostgreSQL or SQLite, detects which generation of the table layout a
// database has, and upgrades it in place.
//
// # Key Components
//
//   - Store: account, game and robot queries used by the game server
//   - Account, GameResult, RobotParams: rows of the users, games and
//     robotparams tables
//   - FoldSeats: fits five and six player games into the four-slot games row
//   - LowerNickname: the case-insensitive nickname key
//
// # Example Usage
//
//	m, err := database.Initialize(ctx, database.Config{URL: "mysql://localhost/socdata"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Cleanup(true)
//
//	var store settlersdb.Store = database.NewStore(m)
//	nick, ok, err := store.Authenticate(ctx, name, password)
//
// See the http package for the admin status API and cmd/settlersdb for the
// command line tool.
package settlersdb
