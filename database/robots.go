package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sagarc03/settlersdb"
)

// RetrieveRobotParams returns the tuning values for robot name. A database
// without a robotparams table reports absent.
func (s *Store) RetrieveRobotParams(ctx context.Context, name string) (settlersdb.RobotParams, bool, error) {
	ok, err := s.ensure(ctx)
	if err != nil || !ok {
		return settlersdb.RobotParams{}, false, err
	}

	var p settlersdb.RobotParams
	st, err := s.m.stmt(ctx, OpRobotParamsByName)
	if err == nil {
		err = st.GetContext(ctx, &p, name)
	}

	switch {
	case err == nil:
		return p, true, nil
	case errors.Is(err, sql.ErrNoRows), s.m.isUndefinedTable(err):
		return settlersdb.RobotParams{}, false, nil
	default:
		return settlersdb.RobotParams{}, false, s.fail(OpRobotParamsByName, err)
	}
}
