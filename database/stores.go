package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"merquelo/models"
	"merquelo/utils"
)

// ==================== STORE OPERATIONS ====================

// InsertStore adds a store to a list. No uniqueness check happens here;
// two stores differing only in case can coexist at this layer.
func (r *Repository) InsertStore(ctx context.Context, listID int64, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO list_stores (list_id, store_name, name_key)
		VALUES (?, ?, ?)
	`, listID, name, utils.NameKey(name))
	if err != nil {
		return 0, fmt.Errorf("insert store: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repository) GetStoresForList(ctx context.Context, listID int64) ([]models.ListStore, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, list_id, store_name
		FROM list_stores
		WHERE list_id = ?
		ORDER BY id ASC
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("get stores: %w", err)
	}
	defer rows.Close()

	stores := make([]models.ListStore, 0)
	for rows.Next() {
		var s models.ListStore
		if err := rows.Scan(&s.ID, &s.ListID, &s.StoreName); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get stores: %w", err)
	}
	return stores, nil
}

// FindStoreByName looks a store of the list up case-insensitively.
// Returns nil, nil when there is none.
func (r *Repository) FindStoreByName(ctx context.Context, listID int64, name string) (*models.ListStore, error) {
	var s models.ListStore
	err := r.db.QueryRowContext(ctx, `
		SELECT id, list_id, store_name
		FROM list_stores
		WHERE list_id = ? AND name_key = ?
		ORDER BY id ASC
		LIMIT 1
	`, listID, utils.NameKey(name)).Scan(&s.ID, &s.ListID, &s.StoreName)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find store: %w", err)
	}

	return &s, nil
}

// GetDistinctStoreNames returns every store name ever used in any list.
func (r *Repository) GetDistinctStoreNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT store_name FROM list_stores ORDER BY store_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("get store names: %w", err)
	}
	return scanStrings(rows, "store names")
}

func (r *Repository) GetStoreNamesForList(ctx context.Context, listID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT store_name FROM list_stores WHERE list_id = ? ORDER BY store_name ASC
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("get store names: %w", err)
	}
	return scanStrings(rows, "store names")
}

// DeleteStoreByName removes the matching stores of a list, compared
// case-insensitively. Their items are removed by the cascade.
func (r *Repository) DeleteStoreByName(ctx context.Context, listID int64, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM list_stores WHERE list_id = ? AND name_key = ?
	`, listID, utils.NameKey(name))
	if err != nil {
		return 0, fmt.Errorf("delete store: %w", err)
	}
	return res.RowsAffected()
}
