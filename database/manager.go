package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/sagarc03/settlersdb"
)

// Manager owns the single database connection and the statement catalog for
// the schema version found on it.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	cfg      Config
	resolved Resolved
	open     Opener

	db      *sqlx.DB
	catalog *Catalog
	stmts   map[Op]*sqlx.Stmt

	initialized bool
	shutdown    bool
	// failed is set when a statement fails, so the next EnsureConnected
	// reopens the connection.
	failed   bool
	connects int
}

// Initialize resolves cfg, loads the driver and connects. If cfg.SetupScript
// is set the script runs before the schema version is detected.
func Initialize(ctx context.Context, cfg Config) (*Manager, error) {
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	open, err := LoadDriver(resolved, cfg.DriverPath)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:      cfg,
		resolved: resolved,
		open:     open,
	}

	if err := m.connect(ctx, cfg.SetupScript); err != nil {
		return nil, err
	}
	m.initialized = true

	slog.Info("database connected",
		"dialect", resolved.Dialect.String(),
		"driver", resolved.Driver,
		"url", resolved.URL,
		"schema_version", int(m.catalog.Version()),
	)

	return m, nil
}

// connect opens a fresh handle, optionally runs a setup script, and builds
// the catalog for the version found.
func (m *Manager) connect(ctx context.Context, setupScript string) error {
	r := m.resolved

	sqlDB, err := m.open(r.URL, r.User, r.Password)
	if err != nil {
		return fmt.Errorf("%w: %w", settlersdb.ErrConnect, err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("%w: ping %s: %w", settlersdb.ErrConnect, r.Dialect, err)
	}

	m.db = sqlx.NewDb(sqlDB, r.Driver)
	m.connects++

	if setupScript != "" {
		if err := m.RunScriptFile(ctx, setupScript); err != nil {
			_ = m.closeHandle()
			return err
		}
	}

	m.refreshCatalog(ctx)
	m.failed = false
	return nil
}

// refreshCatalog detects the schema version and rebuilds the statement set.
func (m *Manager) refreshCatalog(ctx context.Context) {
	m.closeStatements()
	version := readVersion(ctx, m.db, m.resolved.Dialect)
	m.catalog = NewCatalog(version, m.resolved.Dialect, m.resolved.Driver)
}

// EnsureConnected makes sure a usable connection exists, reopening it with
// the cached credentials after an error or a non-shutdown Cleanup. It
// reports false when the Manager was never initialized or was shut down.
func (m *Manager) EnsureConnected(ctx context.Context) (bool, error) {
	if m == nil || !m.initialized || m.shutdown {
		return false, nil
	}
	if m.db != nil && !m.failed {
		return true, nil
	}

	slog.Warn("reconnecting to database", "dialect", m.resolved.Dialect.String())

	if m.db != nil {
		if err := m.closeHandle(); err != nil {
			slog.Warn("failed to close database handle", "err", err)
		}
	}

	if err := m.connect(ctx, ""); err != nil {
		m.failed = true
		return false, err
	}
	return true, nil
}

// DetectVersion reads the schema version of the live connection again and
// rebuilds the catalog. Two calls without a schema change yield the same
// version.
func (m *Manager) DetectVersion(ctx context.Context) (SchemaVersion, error) {
	if m == nil || m.db == nil {
		return 0, settlersdb.ErrNotConnected
	}
	m.refreshCatalog(ctx)
	return m.catalog.Version(), nil
}

// IsLatest reports whether the connected schema is SchemaLatest.
func (m *Manager) IsLatest() (bool, error) {
	if m == nil || m.catalog == nil {
		return false, settlersdb.ErrNotConnected
	}
	return m.catalog.IsLatest(), nil
}

// Catalog returns the statement set for the connected schema, or nil before
// the first connection.
func (m *Manager) Catalog() *Catalog {
	return m.catalog
}

// Version returns the detected schema version, or 0 before the first
// connection.
func (m *Manager) Version() SchemaVersion {
	if m.catalog == nil {
		return 0
	}
	return m.catalog.Version()
}

// Dialect returns the resolved dialect.
func (m *Manager) Dialect() Dialect {
	return m.resolved.Dialect
}

// IsInitialized reports whether Initialize succeeded and Cleanup(true) has
// not been called.
func (m *Manager) IsInitialized() bool {
	return m != nil && m.initialized && !m.shutdown
}

// Config returns the configuration the Manager was initialized with.
func (m *Manager) Config() Config {
	return m.cfg
}

// Cleanup releases the prepared statements and the connection. After
// Cleanup(true) the Manager never reconnects; after Cleanup(false) the next
// EnsureConnected reopens.
func (m *Manager) Cleanup(forShutdown bool) error {
	if m == nil {
		return nil
	}
	if forShutdown {
		m.shutdown = true
	}
	if m.db == nil {
		return nil
	}
	return m.closeHandle()
}

// markFailed records a statement failure so the next EnsureConnected
// reconnects.
func (m *Manager) markFailed() {
	m.failed = true
}

// stmt returns the prepared statement for op, preparing it on first use.
func (m *Manager) stmt(ctx context.Context, op Op) (*sqlx.Stmt, error) {
	if s, ok := m.stmts[op]; ok {
		return s, nil
	}

	s, err := m.db.PreparexContext(ctx, m.catalog.StatementFor(op))
	if err != nil {
		return nil, fmt.Errorf("prepare %s: %w", op, err)
	}

	if m.stmts == nil {
		m.stmts = make(map[Op]*sqlx.Stmt)
	}
	m.stmts[op] = s
	return s, nil
}

func (m *Manager) closeStatements() error {
	var errs []error
	for op, s := range m.stmts {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", op, err))
		}
	}
	m.stmts = nil
	return errors.Join(errs...)
}

func (m *Manager) closeHandle() error {
	stmtErr := m.closeStatements()
	dbErr := m.db.Close()
	m.db = nil
	if dbErr != nil {
		dbErr = fmt.Errorf("close database: %w", dbErr)
	}
	return errors.Join(stmtErr, dbErr)
}

// isUndefinedTable reports whether err means a table does not exist.
func (m *Manager) isUndefinedTable(err error) bool {
	return m.resolved.Dialect.info().isUndefinedTable(err)
}
