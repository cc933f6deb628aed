package database

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sagarc03/settlersdb"
)

// Known tables.
const (
	TableUsers       = "users"
	TableLogins      = "logins"
	TableGames       = "games"
	TableRobotParams = "robotparams"
)

// KnownTables lists the tables the server reads or writes.
var KnownTables = []string{TableUsers, TableLogins, TableGames, TableRobotParams}

type tableValidation struct {
	tableName       string
	expectedColumns []string
	// optional tables are only checked when present.
	optional bool
}

func getTableValidations(version SchemaVersion) []tableValidation {
	users := []string{"nickname", "host", "password", "email", "lastlogin"}
	if version >= Schema1200 {
		users = append(users, "nickname_lc")
	}

	return []tableValidation{
		{tableName: TableUsers, expectedColumns: users},
		{tableName: TableLogins, expectedColumns: []string{"nickname", "host", "lastlogin"}},
		{tableName: TableGames, expectedColumns: []string{
			"gamename", "player1", "player2", "player3", "player4",
			"score1", "score2", "score3", "score4", "starttime",
		}},
		{tableName: TableRobotParams, optional: true, expectedColumns: []string{
			"robotname", "maxgamelength", "maxeta", "etabonusfactor", "adversarialfactor",
			"leaderadversarialfactor", "devcardmultiplier", "threatmultiplier", "strategytype", "tradeflag",
		}},
	}
}

// Tables reports which of KnownTables exist.
func (m *Manager) Tables(ctx context.Context) (map[string]bool, error) {
	if m == nil || m.db == nil {
		return nil, settlersdb.ErrNotConnected
	}

	di := m.resolved.Dialect.info()
	found := make(map[string]bool, len(KnownTables))
	for _, table := range KnownTables {
		exists, err := di.tableExists(ctx, m.db, table)
		if err != nil {
			return nil, fmt.Errorf("tables: %w", err)
		}
		found[table] = exists
	}
	return found, nil
}

// Validate compares the live tables with the columns the detected schema
// version needs.
func (m *Manager) Validate(ctx context.Context) error {
	if m == nil || m.db == nil {
		return settlersdb.ErrNotConnected
	}

	for _, v := range getTableValidations(m.catalog.Version()) {
		if err := m.validateTable(ctx, v); err != nil {
			return fmt.Errorf("validate schema %s: %w", v.tableName, err)
		}
	}
	return nil
}

func (m *Manager) validateTable(ctx context.Context, v tableValidation) error {
	di := m.resolved.Dialect.info()

	exists, err := di.tableExists(ctx, m.db, v.tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}
	if !exists {
		if v.optional {
			return nil
		}
		return fmt.Errorf("validate table schema: table %s does not exist", v.tableName)
	}

	actual, err := di.columns(ctx, m.db, v.tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}

	var missing []string
	for _, col := range v.expectedColumns {
		if !actual[col] {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		var errMsg strings.Builder
		fmt.Fprintf(&errMsg, "table %s schema validation failed:\n", v.tableName)
		fmt.Fprintf(&errMsg, "  missing columns: %s\n", strings.Join(missing, ", "))
		return errors.New(errMsg.String())
	}

	return nil
}
