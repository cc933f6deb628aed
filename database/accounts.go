package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sagarc03/settlersdb"
)

// LookupUser returns the stored nickname for name. From Schema1200 on the
// match is case-insensitive.
func (s *Store) LookupUser(ctx context.Context, name string) (string, bool, error) {
	if err := settlersdb.ValidateNickname(name); err != nil {
		return "", false, err
	}

	ok, err := s.ensure(ctx)
	if err != nil || !ok {
		return "", false, err
	}

	st, err := s.m.stmt(ctx, OpUserExistsByName)
	if err != nil {
		return "", false, s.fail(OpUserExistsByName, err)
	}

	var nickname string
	err = st.GetContext(ctx, &nickname, s.m.catalog.NameKey(name))
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, s.fail(OpUserExistsByName, err)
	}
	return nickname, true, nil
}

type passwordRow struct {
	Nickname string         `db:"nickname"`
	Password sql.NullString `db:"password"`
}

// Authenticate checks password for name. See settlersdb.Store for the
// result table.
func (s *Store) Authenticate(ctx context.Context, name, password string) (string, bool, error) {
	ok, err := s.ensure(ctx)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return noAccount(name, password)
	}

	st, err := s.m.stmt(ctx, OpUserPasswordByName)
	if err != nil {
		return "", false, s.fail(OpUserPasswordByName, err)
	}

	var row passwordRow
	err = st.GetContext(ctx, &row, s.m.catalog.NameKey(name))
	if errors.Is(err, sql.ErrNoRows) {
		return noAccount(name, password)
	}
	if err != nil {
		return "", false, s.fail(OpUserPasswordByName, err)
	}

	// A NULL password only matches the empty password.
	if row.Password.String == password && (row.Password.Valid || password == "") {
		return row.Nickname, true, nil
	}
	return "", false, nil
}

// noAccount accepts name unchanged when no account exists and no password
// was given.
func noAccount(name, password string) (string, bool, error) {
	if password == "" {
		return name, true, nil
	}
	return "", false, nil
}

// UserFromHost returns a nickname registered from host.
func (s *Store) UserFromHost(ctx context.Context, host string) (string, bool, error) {
	ok, err := s.ensure(ctx)
	if err != nil || !ok {
		return "", false, err
	}

	st, err := s.m.stmt(ctx, OpUserByHost)
	if err != nil {
		return "", false, s.fail(OpUserByHost, err)
	}

	var nickname string
	err = st.GetContext(ctx, &nickname, host)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, s.fail(OpUserByHost, err)
	}
	return nickname, true, nil
}

// CreateAccount inserts a. A zero LastLogin is stored as now.
func (s *Store) CreateAccount(ctx context.Context, a settlersdb.Account) (bool, error) {
	if err := settlersdb.ValidateAccount(a); err != nil {
		return false, err
	}

	ok, err := s.ensure(ctx)
	if err != nil || !ok {
		return false, err
	}

	lastLogin := a.LastLogin
	if lastLogin.IsZero() {
		lastLogin = time.Now()
	}

	args := []any{a.Nickname, a.Host, a.Password, nullString(a.Email), lastLogin}
	if s.m.catalog.Version() >= Schema1200 {
		args = append(args, settlersdb.LowerNickname(a.Nickname))
	}

	if err := s.exec(ctx, OpCreateAccount, args...); err != nil {
		return false, err
	}
	return true, nil
}

// RecordLogin appends a row to the logins table.
func (s *Store) RecordLogin(ctx context.Context, name, host string, at time.Time) (bool, error) {
	ok, err := s.ensure(ctx)
	if err != nil || !ok {
		return false, err
	}

	if err := s.exec(ctx, OpRecordLogin, name, host, at); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateLastLogin sets users.lastlogin for the exact nickname.
func (s *Store) UpdateLastLogin(ctx context.Context, name string, at time.Time) (bool, error) {
	ok, err := s.ensure(ctx)
	if err != nil || !ok {
		return false, err
	}

	if err := s.exec(ctx, OpUpdateLastLogin, at, name); err != nil {
		return false, err
	}
	return true, nil
}

// UpdatePassword replaces the password of name. It reports true even when
// no account matched.
func (s *Store) UpdatePassword(ctx context.Context, name, password string) (bool, error) {
	if err := settlersdb.ValidatePassword(password); err != nil {
		return false, err
	}

	ok, err := s.ensure(ctx)
	if err != nil || !ok {
		return false, err
	}

	if err := s.exec(ctx, OpUpdatePassword, password, s.m.catalog.NameKey(name)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) exec(ctx context.Context, op Op, args ...any) error {
	st, err := s.m.stmt(ctx, op)
	if err != nil {
		return s.fail(op, err)
	}
	if _, err := st.ExecContext(ctx, args...); err != nil {
		return s.fail(op, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
