package database

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"plugin"
	"slices"

	"github.com/jmoiron/sqlx"

	"github.com/sagarc03/settlersdb"
	"github.com/sagarc03/settlersdb/database/mysql"
	"github.com/sagarc03/settlersdb/database/postgres"
	"github.com/sagarc03/settlersdb/database/sqlite"
)

// Opener opens a database handle. It must not ping.
type Opener func(url, user, password string) (*sql.DB, error)

// PluginSymbol is the exported variable an external driver plugin provides.
// It must be a database/sql/driver.Driver.
const PluginSymbol = "Driver"

var builtinOpeners = map[Dialect]Opener{
	DialectMySQL:    mysql.Open,
	DialectPostgres: postgres.Open,
	DialectSQLite: func(url, _, _ string) (*sql.DB, error) {
		return sqlite.Open(url)
	},
}

// LoadDriver finds an Opener for r.
//
// With driverPath set the driver is loaded from that Go plugin and
// registered under r.Driver. Otherwise the built-in driver for the dialect
// is used, falling back to any database/sql driver already registered under
// r.Driver.
func LoadDriver(r Resolved, driverPath string) (Opener, error) {
	if driverPath != "" {
		return loadPlugin(r, driverPath)
	}

	if open, ok := builtinOpeners[r.Dialect]; ok {
		return open, nil
	}

	if r.Driver != "" && slices.Contains(sql.Drivers(), r.Driver) {
		return registeredOpener(r.Driver), nil
	}

	return nil, fmt.Errorf("%w: no driver for %s (driver %q)", settlersdb.ErrDriverUnavailable, r.Dialect, r.Driver)
}

func loadPlugin(r Resolved, path string) (Opener, error) {
	if r.Driver == "" {
		return nil, fmt.Errorf("%w: driver name required with driver path", settlersdb.ErrConfig)
	}

	if !slices.Contains(sql.Drivers(), r.Driver) {
		p, err := plugin.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: open plugin %s: %w", settlersdb.ErrDriverUnavailable, path, err)
		}

		sym, err := p.Lookup(PluginSymbol)
		if err != nil {
			return nil, fmt.Errorf("%w: plugin %s: %w", settlersdb.ErrDriverUnavailable, path, err)
		}

		var drv driver.Driver
		switch v := sym.(type) {
		case *driver.Driver:
			drv = *v
		case driver.Driver:
			drv = v
		}
		if drv == nil {
			return nil, fmt.Errorf("%w: plugin %s: symbol %s is %T, not a driver.Driver", settlersdb.ErrDriverUnavailable, path, PluginSymbol, sym)
		}

		sql.Register(r.Driver, drv)
	}

	if di, ok := dialects[r.Dialect]; ok {
		sqlx.BindDriver(r.Driver, sqlx.BindType(di.driverName))
	}

	return registeredOpener(r.Driver), nil
}

// registeredOpener opens url with a driver registered under name. Drivers
// opened this way take credentials from the URL.
func registeredOpener(name string) Opener {
	return func(url, _, _ string) (*sql.DB, error) {
		db, err := sql.Open(name, url)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		return db, nil
	}
}
