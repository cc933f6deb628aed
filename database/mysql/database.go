// Package mysql opens MySQL connections with go-sql-driver/mysql and answers
// the catalog questions the schema code needs.
package mysql

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// DriverName is the database/sql driver name registered by go-sql-driver/mysql.
const DriverName = "mysql"

// DefaultURL is used when neither a URL nor a driver is configured.
const DefaultURL = "mysql://localhost/socdata"

const (
	defaultPort = "3306"
	// errNoSuchTable is ER_NO_SUCH_TABLE.
	errNoSuchTable = 1146
)

// Open returns a handle for the server at url. Non-empty user and password
// override any credentials embedded in the URL.
func Open(rawURL, user, password string) (*sql.DB, error) {
	cfg, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	if user != "" {
		cfg.User = user
	}
	if password != "" {
		cfg.Passwd = password
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create mysql connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// ParseURL converts a mysql:// URL into a driver config. Anything else is
// handed to mysql.ParseDSN, so native DSNs such as
// "user:pass@tcp(host:3306)/socdata" also work.
func ParseURL(rawURL string) (*mysql.Config, error) {
	if !strings.HasPrefix(rawURL, "mysql://") {
		cfg, err := mysql.ParseDSN(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		return cfg, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse mysql url: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.ParseTime = true

	host := u.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := u.Port()
	if port == "" {
		port = defaultPort
	}
	cfg.Addr = net.JoinHostPort(host, port)
	cfg.DBName = strings.TrimPrefix(u.Path, "/")

	if u.User != nil {
		cfg.User = u.User.Username()
		if p, ok := u.User.Password(); ok {
			cfg.Passwd = p
		}
	}

	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}

	return cfg, nil
}

// IsUndefinedTable reports whether err was caused by a missing table.
func IsUndefinedTable(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errNoSuchTable
}

// QuoteIdentifier quotes a table or column name.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
