package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is satisfied by *sql.DB, *sql.Tx and their sqlx wrappers.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Columns returns the column names of tableName in the current database.
// A missing table yields an empty set.
func Columns(ctx context.Context, q Querier, tableName string) (map[string]bool, error) {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := q.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns[name] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return columns, nil
}

// TableExists reports whether tableName exists in the current database.
func TableExists(ctx context.Context, q Querier, tableName string) (bool, error) {
	var n int
	query := `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		AND table_name = ?
	`
	err := q.QueryRowContext(ctx, query, tableName).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return n > 0, nil
}
