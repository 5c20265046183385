package database

import (
	"context"
	"database/sql"
	"fmt"
)

// querier is the subset of *sql.DB and *sql.Tx the query layer needs.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository is the query layer: one method per parameterized statement.
// Every write is a single-row statement; callers compose them, inside
// DB.WithTx when several writes must land together.
type Repository struct {
	db querier
}

func NewRepository(q querier) *Repository {
	return &Repository{db: q}
}

// scanStrings collects a single text column. what names the column in
// errors.
func scanStrings(rows *sql.Rows, what string) ([]string, error) {
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get %s: %w", what, err)
	}
	return out, nil
}
