package settlersdb

import "errors"

var (
	// ErrConfig is returned when the database configuration is inconsistent,
	// such as a URL whose dialect cannot be inferred and no driver given.
	ErrConfig = errors.New("invalid database configuration")
	// ErrDriverUnavailable is returned when no database driver could be loaded
	ErrDriverUnavailable = errors.New("database driver unavailable")
	// ErrConnect is returned when opening or pinging the connection fails
	ErrConnect = errors.New("database connect failed")
	// ErrQuery is returned when executing a statement fails
	ErrQuery = errors.New("query failed")
	// ErrValidation is returned when input is rejected before reaching the database
	ErrValidation = errors.New("invalid input")
	// ErrNotConnected is returned when an operation requires a live connection
	ErrNotConnected = errors.New("not connected")
	// ErrSchemaLatest is returned when upgrading a schema that is already current
	ErrSchemaLatest = errors.New("already at latest schema")
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("not found")
)

// IsConnectivity reports whether err means the database could not be reached:
// either the driver failed to load or the connection could not be opened.
func IsConnectivity(err error) bool {
	return errors.Is(err, ErrDriverUnavailable) || errors.Is(err, ErrConnect)
}
