package settlersdb

import (
	"context"
	"time"
)

// Store is the data-access surface the game server uses for accounts, game
// results and robot tuning data.
//
// Implementations hold a single database connection and are not safe for
// concurrent use; callers serialize access.
//
// Operations that return an optional value report its presence with a bool.
// When no database was ever connected, lookups report absent rather than
// failing, and Authenticate falls back to accepting empty passwords so the
// server can run without persistent accounts.
type Store interface {
	// LookupUser returns the nickname as stored, matched case-insensitively
	// when the schema supports it.
	LookupUser(ctx context.Context, name string) (string, bool, error)

	// Authenticate checks a password and returns the stored nickname.
	//
	// Returns:
	//   - stored nickname, true: account exists and password matches
	//   - name unchanged, true: no such account (or no database) and password is empty
	//   - "", false: account exists and password does not match,
	//     or no account and a non-empty password was given
	Authenticate(ctx context.Context, name, password string) (string, bool, error)

	// UserFromHost returns a nickname registered from host, if any.
	UserFromHost(ctx context.Context, host string) (string, bool, error)

	// CreateAccount inserts a new account. It does not check for an existing
	// nickname; call LookupUser first.
	CreateAccount(ctx context.Context, a Account) (bool, error)

	RecordLogin(ctx context.Context, name, host string, at time.Time) (bool, error)
	UpdateLastLogin(ctx context.Context, name string, at time.Time) (bool, error)

	// UpdatePassword replaces a password. The password must be 1 to
	// MaxPasswordLength characters.
	UpdatePassword(ctx context.Context, name, password string) (bool, error)

	// SaveGameResult records a finished game, folding five and six seat games
	// into four slots with FoldSeats.
	SaveGameResult(ctx context.Context, g GameResult) (bool, error)

	// RetrieveRobotParams returns tuning data for a robot. A database with no
	// robotparams table reports absent.
	RetrieveRobotParams(ctx context.Context, name string) (RobotParams, bool, error)

	// CountUsers returns the number of accounts, or -1 if not connected or
	// the users table is missing.
	CountUsers(ctx context.Context) (int, error)

	// FindDuplicateNames maps each lowercased nickname shared by more than one
	// account to all the nicknames that share it.
	FindDuplicateNames(ctx context.Context) (map[string][]string, error)

	// SchemaInfo describes the connected database.
	SchemaInfo(ctx context.Context) (SchemaInfo, error)
}
