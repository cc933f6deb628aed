package database

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sagarc03/settlersdb"
)

const (
	// DefaultUser and DefaultPassword are used when no credentials are configured.
	DefaultUser     = "socuser"
	DefaultPassword = "socpass"
)

// Config describes how to reach the database and which one-shot modes to run.
type Config struct {
	// Type names the dialect explicitly: mysql, postgres, sqlite or oracle.
	// When empty the dialect is inferred from Driver or URL.
	Type     string `mapstructure:"type" validate:"omitempty,oneof=mysql mariadb postgres postgresql pgx sqlite sqlite3 oracle"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	URL      string `mapstructure:"url"`
	Driver   string `mapstructure:"driver" validate:"required_with=DriverPath"`
	// DriverPath loads Driver from a Go plugin instead of the built-in set.
	DriverPath  string `mapstructure:"driver_path"`
	SetupScript string `mapstructure:"setup_script" validate:"omitempty,file"`
	// UpgradeSchema runs the schema upgrade once after connecting.
	UpgradeSchema bool `mapstructure:"upgrade_schema"`
	// UpgradeBatchSize overrides DefaultBatchSize when positive.
	UpgradeBatchSize int  `mapstructure:"upgrade_batch_size" validate:"min=0"`
	SaveGames        bool `mapstructure:"save_games"`
}

// Resolved is a Config with every connection parameter decided.
type Resolved struct {
	Dialect  Dialect
	URL      string
	Driver   string
	User     string
	Password string
}

// Resolve decides the dialect, driver and URL.
//
// User and Password fall back to DefaultUser and DefaultPassword unless the
// URL carries its own credentials. Explicit User and Password always override
// the URL's.
//
// An explicit Type wins. Otherwise, with both URL and Driver set the dialect
// comes from the driver name; with only a URL it comes from the URL scheme;
// with only a driver the dialect's default URL is used. A URL or driver that
// names no known dialect is an ErrConfig, except that a URL paired with a
// driver is accepted as DialectUnknown.
func (c Config) Resolve() (Resolved, error) {
	r := Resolved{
		User:     c.User,
		Password: c.Password,
		URL:      trimJDBC(strings.TrimSpace(c.URL)),
		Driver:   strings.TrimSpace(c.Driver),
	}
	switch {
	case c.Type != "":
		d, err := ParseDialect(c.Type)
		if err != nil {
			return Resolved{}, err
		}
		r.Dialect = d

	case r.URL != "" && r.Driver != "":
		r.Dialect = dialectFromDriver(r.Driver)

	case r.URL != "":
		d := dialectFromURL(r.URL)
		if d == DialectUnknown {
			return Resolved{}, fmt.Errorf("%w: cannot infer database type from url %q; set the driver or type", settlersdb.ErrConfig, c.URL)
		}
		r.Dialect = d

	case r.Driver != "":
		d := dialectFromDriver(r.Driver)
		if d == DialectUnknown || d == DialectOracle {
			return Resolved{}, fmt.Errorf("%w: driver %q needs a url", settlersdb.ErrConfig, r.Driver)
		}
		r.Dialect = d

	default:
		r.Dialect = DialectMySQL
	}

	di := r.Dialect.info()
	if r.URL == "" {
		if di.defaultURL == "" {
			return Resolved{}, fmt.Errorf("%w: %s needs a url", settlersdb.ErrConfig, r.Dialect)
		}
		r.URL = di.defaultURL
	}
	if !hasCredentials(r.URL) {
		if r.User == "" {
			r.User = DefaultUser
		}
		if r.Password == "" {
			r.Password = DefaultPassword
		}
	}
	// A built-in dialect always uses its own driver; a foreign name such as
	// a JDBC class only served to pick the dialect.
	if c.DriverPath == "" && di.driverName != "" {
		r.Driver = di.driverName
	}

	return r, nil
}

// String renders r without the password.
func (r Resolved) String() string {
	return fmt.Sprintf("%s driver=%s url=%s user=%s", r.Dialect, r.Driver, r.URL, r.User)
}

// hasCredentials reports whether rawURL names a user, either as URL userinfo,
// a MySQL "user:pass@tcp(host)/db" DSN or a PostgreSQL "user=" keyword.
func hasCredentials(rawURL string) bool {
	if strings.Contains(rawURL, "://") {
		u, err := url.Parse(rawURL)
		return err == nil && u.User != nil && u.User.Username() != ""
	}
	if at := strings.Index(rawURL, "@"); at > 0 && !strings.Contains(rawURL[:at], "/") {
		return true
	}
	for _, field := range strings.Fields(rawURL) {
		if strings.HasPrefix(field, "user=") {
			return true
		}
	}
	return false
}

func trimJDBC(url string) string {
	if len(url) >= 5 && strings.EqualFold(url[:5], "jdbc:") {
		return url[5:]
	}
	return url
}

func dialectFromDriver(driver string) Dialect {
	d := strings.ToLower(driver)
	switch {
	case strings.Contains(d, "postgres"), strings.Contains(d, "pgx"):
		return DialectPostgres
	case strings.Contains(d, "sqlite"):
		return DialectSQLite
	case strings.Contains(d, "mysql"), strings.Contains(d, "mariadb"):
		return DialectMySQL
	case strings.Contains(d, "oracle"), strings.Contains(d, "godror"), strings.Contains(d, "oci8"):
		return DialectOracle
	default:
		return DialectUnknown
	}
}

func dialectFromURL(url string) Dialect {
	u := strings.ToLower(url)
	switch {
	case strings.HasPrefix(u, "mysql:"):
		return DialectMySQL
	case strings.HasPrefix(u, "postgres:"), strings.HasPrefix(u, "postgresql:"):
		return DialectPostgres
	case strings.HasPrefix(u, "sqlite:"), strings.HasPrefix(u, "file:"):
		return DialectSQLite
	case strings.HasPrefix(u, "oracle:"):
		return DialectOracle
	default:
		return DialectUnknown
	}
}
