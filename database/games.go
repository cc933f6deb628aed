package database

import (
	"context"
	"database/sql"

	"github.com/sagarc03/settlersdb"
)

// SaveGameResult stores g in the four-slot games table, folding larger games
// with settlersdb.FoldSeats. It does nothing and reports false when saving
// game results is disabled.
func (s *Store) SaveGameResult(ctx context.Context, g settlersdb.GameResult) (bool, error) {
	if !s.saveGames {
		return false, nil
	}

	ok, err := s.ensure(ctx)
	if err != nil || !ok {
		return false, err
	}

	slots := settlersdb.FoldSeats(g)

	args := make([]any, 0, 2*settlersdb.SlotCount+2)
	args = append(args, g.Name)
	for _, seat := range slots {
		args = append(args, sql.NullString{String: seat.Name, Valid: !seat.Vacant})
	}
	for _, seat := range slots {
		args = append(args, sql.NullInt32{Int32: int32(seat.Score), Valid: !seat.Vacant})
	}
	args = append(args, g.StartTime)

	if err := s.exec(ctx, OpSaveGameResult, args...); err != nil {
		return false, err
	}
	return true, nil
}
