// Package sqlite opens SQLite databases with the pure-Go modernc driver and
// answers the catalog questions the schema code needs.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// DefaultURL is used when only the driver is configured.
const DefaultURL = "sqlite:socdata.sqlite"

func init() {
	sqlx.BindDriver(DriverName, sqlx.QUESTION)
}

// Open returns a handle for the database file named by url. SQLite has no
// credentials, so none are taken.
func Open(url string) (*sql.DB, error) {
	dsn := Path(url)
	if strings.Contains(dsn, "?") {
		dsn += "&_pragma=busy_timeout(5000)"
	} else {
		dsn += "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// Path strips the sqlite: scheme from url, leaving the file name or file: URI
// the driver expects.
func Path(url string) string {
	path := strings.TrimPrefix(url, "sqlite://")
	return strings.TrimPrefix(path, "sqlite:")
}

// IsUndefinedTable reports whether err was caused by a missing table.
func IsUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return strings.Contains(sqliteErr.Error(), "no such table")
	}
	return strings.Contains(err.Error(), "no such table")
}

// QuoteIdentifier quotes a table or column name.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
