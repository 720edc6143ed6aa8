package process

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Querier is the part of *sqlx.DB the loaders need.
type Querier interface {
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
}

// FetchTable runs query and reads every row into a table whose columns are
// labelled, in order, with columns. The query must return exactly that many
// columns.
func FetchTable(ctx context.Context, db Querier, query string, columns []string) (*Table, error) {
	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run %q: %w", query, err)
	}
	defer rows.Close()

	got, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	if len(got) != len(columns) {
		return nil, fmt.Errorf("query %q returned %d columns, expected %d", query, len(got), len(columns))
	}

	table := NewTable(columns...)
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}
	return table, nil
}

// normalizeValue turns driver values into strings, keeping NULL as nil.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
