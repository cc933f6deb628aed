// Package postgres opens PostgreSQL connections through pgx's database/sql
// adapter and answers the catalog questions the schema code needs.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
)

// DriverName is the database/sql driver name registered by pgx.
const DriverName = "pgx"

// DefaultURL is used when only the driver is configured.
const DefaultURL = "postgres://localhost/socdata"

// codeUndefinedTable is SQLSTATE undefined_table.
const codeUndefinedTable = "42P01"

// Open returns a handle for the server at url. Non-empty user and password
// override any credentials embedded in the URL.
func Open(url, user, password string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}

	if user != "" {
		cfg.User = user
	}
	if password != "" {
		cfg.Password = password
	}

	return stdlib.OpenDB(*cfg), nil
}

// IsUndefinedTable reports whether err was caused by a missing table.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUndefinedTable
}

// QuoteIdentifier quotes a table or column name.
func QuoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
