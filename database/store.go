package database

import (
	"context"
	"fmt"
	"slices"

	"github.com/sagarc03/settlersdb"
)

// Store runs the server's account, game and robot queries through a Manager.
// A Store built on a nil Manager behaves as if no database is configured.
type Store struct {
	m         *Manager
	saveGames bool
}

var _ settlersdb.Store = (*Store)(nil)

// NewStore returns a Store over m. Game results are saved only when the
// Manager's config enables SaveGames.
func NewStore(m *Manager) *Store {
	s := &Store{m: m}
	if m != nil {
		s.saveGames = m.cfg.SaveGames
	}
	return s
}

// Manager returns the underlying Manager, which may be nil.
func (s *Store) Manager() *Manager {
	return s.m
}

func (s *Store) ensure(ctx context.Context) (bool, error) {
	return s.m.EnsureConnected(ctx)
}

// fail records a failed statement and wraps err.
func (s *Store) fail(op Op, err error) error {
	s.m.markFailed()
	return fmt.Errorf("%s: %w: %w", op, settlersdb.ErrQuery, err)
}

// CountUsers returns the number of accounts, or -1 when not connected or
// the users table does not exist.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	ok, err := s.ensure(ctx)
	if err != nil {
		return -1, err
	}
	if !ok {
		return -1, nil
	}

	st, err := s.m.stmt(ctx, OpCountUsers)
	if err == nil {
		var n int
		if err = st.GetContext(ctx, &n); err == nil {
			return n, nil
		}
	}
	if s.m.isUndefinedTable(err) {
		return -1, nil
	}
	return -1, s.fail(OpCountUsers, err)
}

// FindDuplicateNames groups nicknames that are equal when lowercased. Only
// groups of two or more are returned; each group is sorted.
func (s *Store) FindDuplicateNames(ctx context.Context) (map[string][]string, error) {
	ok, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, settlersdb.ErrNotConnected
	}

	names, err := s.m.nicknames(ctx, s.m.db)
	if err != nil {
		s.m.markFailed()
		return nil, fmt.Errorf("find duplicate names: %w: %w", settlersdb.ErrQuery, err)
	}

	return duplicateGroups(names), nil
}

func duplicateGroups(names []string) map[string][]string {
	groups := make(map[string][]string)
	for _, n := range names {
		lc := settlersdb.LowerNickname(n)
		groups[lc] = append(groups[lc], n)
	}

	dupes := make(map[string][]string)
	for lc, g := range groups {
		if len(g) > 1 {
			slices.Sort(g)
			dupes[lc] = g
		}
	}
	return dupes
}

// nicknames returns every users.nickname.
func (m *Manager) nicknames(ctx context.Context, q querier) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT nickname FROM users`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// SchemaInfo describes the connected database.
func (s *Store) SchemaInfo(ctx context.Context) (settlersdb.SchemaInfo, error) {
	ok, err := s.ensure(ctx)
	if err != nil {
		return settlersdb.SchemaInfo{}, err
	}
	if !ok {
		return settlersdb.SchemaInfo{}, settlersdb.ErrNotConnected
	}

	tables, err := s.m.Tables(ctx)
	if err != nil {
		return settlersdb.SchemaInfo{}, fmt.Errorf("schema info: %w", err)
	}

	c := s.m.Catalog()
	return settlersdb.SchemaInfo{
		Dialect: s.m.Dialect().String(),
		Version: int(c.Version()),
		Latest:  c.IsLatest(),
		Tables:  tables,
	}, nil
}
