package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"merquelo/models"
)

// ==================== LIST OPERATIONS ====================

// InsertList creates a list and returns its generated id.
func (r *Repository) InsertList(ctx context.Context, name string, createdAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO market_lists (name, created_at)
		VALUES (?, ?)
	`, name, createdAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("insert list: %w", err)
	}
	return res.LastInsertId()
}

// GetLists returns every list, most recently created first.
func (r *Repository) GetLists(ctx context.Context) ([]models.MarketList, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM market_lists
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("get lists: %w", err)
	}
	defer rows.Close()

	lists := make([]models.MarketList, 0)
	for rows.Next() {
		var l models.MarketList
		var createdAt int64
		if err := rows.Scan(&l.ID, &l.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		l.CreatedAt = time.UnixMilli(createdAt)
		lists = append(lists, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get lists: %w", err)
	}
	return lists, nil
}

// GetListByID returns the list with the given id. Unlike the name lookups it
// treats a missing row as an error: callers are expected to hold an id they
// got from this database.
func (r *Repository) GetListByID(ctx context.Context, id int64) (*models.MarketList, error) {
	var l models.MarketList
	var createdAt int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at
		FROM market_lists
		WHERE id = ?
	`, id).Scan(&l.ID, &l.Name, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get list %d: %w", id, err)
	}

	l.CreatedAt = time.UnixMilli(createdAt)
	return &l, nil
}

// DeleteList removes a list. Stores and items go with it through the
// foreign key cascade. Reports whether a row was removed.
func (r *Repository) DeleteList(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM market_lists WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete list: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
