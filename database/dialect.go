package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sagarc03/settlersdb"
	"github.com/sagarc03/settlersdb/database/mysql"
	"github.com/sagarc03/settlersdb/database/postgres"
	"github.com/sagarc03/settlersdb/database/sqlite"
)

// Dialect identifies the SQL flavour of the connected database.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectMySQL
	DialectPostgres
	DialectSQLite
	// DialectOracle is recognised for version detection only; no driver ships
	// with this module.
	DialectOracle
)

func (d Dialect) String() string {
	switch d {
	case DialectMySQL:
		return "mysql"
	case DialectPostgres:
		return "postgres"
	case DialectSQLite:
		return "sqlite"
	case DialectOracle:
		return "oracle"
	default:
		return "unknown"
	}
}

// ParseDialect maps a configured database type to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mysql", "mariadb":
		return DialectMySQL, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "oracle":
		return DialectOracle, nil
	default:
		return DialectUnknown, fmt.Errorf("%w: unknown database type %q", settlersdb.ErrConfig, s)
	}
}

// querier is the read surface shared by *sqlx.DB and *sqlx.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// dialectInfo holds what differs between dialects.
type dialectInfo struct {
	driverName string
	defaultURL string

	// skipScriptLine reports script lines the dialect cannot execute.
	skipScriptLine func(line string) bool

	isUndefinedTable func(err error) bool
	columns          func(ctx context.Context, q querier, table string) (map[string]bool, error)
	tableExists      func(ctx context.Context, q querier, table string) (bool, error)
}

var dialects = map[Dialect]dialectInfo{
	DialectMySQL: {
		driverName:       mysql.DriverName,
		defaultURL:       mysql.DefaultURL,
		skipScriptLine:   func(string) bool { return false },
		isUndefinedTable: mysql.IsUndefinedTable,
		columns: func(ctx context.Context, q querier, table string) (map[string]bool, error) {
			return mysql.Columns(ctx, q, table)
		},
		tableExists: func(ctx context.Context, q querier, table string) (bool, error) {
			return mysql.TableExists(ctx, q, table)
		},
	},
	DialectPostgres: {
		driverName:       postgres.DriverName,
		defaultURL:       postgres.DefaultURL,
		skipScriptLine:   isUseLine,
		isUndefinedTable: postgres.IsUndefinedTable,
		columns: func(ctx context.Context, q querier, table string) (map[string]bool, error) {
			return postgres.Columns(ctx, q, table)
		},
		tableExists: func(ctx context.Context, q querier, table string) (bool, error) {
			return postgres.TableExists(ctx, q, table)
		},
	},
	DialectSQLite: {
		driverName:       sqlite.DriverName,
		defaultURL:       sqlite.DefaultURL,
		skipScriptLine:   isUseLine,
		isUndefinedTable: sqlite.IsUndefinedTable,
		columns: func(ctx context.Context, q querier, table string) (map[string]bool, error) {
			return sqlite.Columns(ctx, q, table)
		},
		tableExists: func(ctx context.Context, q querier, table string) (bool, error) {
			return sqlite.TableExists(ctx, q, table)
		},
	},
}

// info returns the capabilities of d. Dialects without an entry get a
// default that cannot introspect.
func (d Dialect) info() dialectInfo {
	if di, ok := dialects[d]; ok {
		return di
	}
	unsupported := fmt.Errorf("introspection not supported for %s", d)
	return dialectInfo{
		skipScriptLine:   func(string) bool { return false },
		isUndefinedTable: func(error) bool { return false },
		columns: func(context.Context, querier, string) (map[string]bool, error) {
			return nil, unsupported
		},
		tableExists: func(context.Context, querier, string) (bool, error) {
			return false, unsupported
		},
	}
}

func isUseLine(line string) bool {
	return len(line) >= 4 && strings.EqualFold(line[:4], "use ")
}
