package database

import (
	"context"
	"database/sql"
	"fmt"

	"merquelo/models"
	"merquelo/utils"
)

// ==================== ITEM OPERATIONS ====================

// InsertItem adds a product row under a store. The quantity is floored at 1
// here as well, so no code path can persist a lower value.
func (r *Repository) InsertItem(ctx context.Context, listID, storeID int64, name string, quantity int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO list_items (list_id, store_id, product_name, name_key, quantity)
		VALUES (?, ?, ?, ?, ?)
	`, listID, storeID, name, utils.NameKey(name), utils.CoerceQuantity(quantity))
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repository) GetItemsForStore(ctx context.Context, storeID int64) ([]models.ListItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, list_id, store_id, product_name, quantity
		FROM list_items
		WHERE store_id = ?
		ORDER BY id ASC
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return scanItems(rows)
}

func (r *Repository) GetItemsForList(ctx context.Context, listID int64) ([]models.ListItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, list_id, store_id, product_name, quantity
		FROM list_items
		WHERE list_id = ?
		ORDER BY store_id ASC, id ASC
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return scanItems(rows)
}

// GetDistinctProductNames returns every product name ever used in any list.
func (r *Repository) GetDistinctProductNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT product_name FROM list_items ORDER BY product_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("get product names: %w", err)
	}
	return scanStrings(rows, "product names")
}

// DeleteItemByName removes every item of the store whose product name
// matches case-insensitively.
func (r *Repository) DeleteItemByName(ctx context.Context, listID, storeID int64, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM list_items WHERE list_id = ? AND store_id = ? AND name_key = ?
	`, listID, storeID, utils.NameKey(name))
	if err != nil {
		return 0, fmt.Errorf("delete item: %w", err)
	}
	return res.RowsAffected()
}

func scanItems(rows *sql.Rows) ([]models.ListItem, error) {
	defer rows.Close()

	items := make([]models.ListItem, 0)
	for rows.Next() {
		var it models.ListItem
		if err := rows.Scan(&it.ID, &it.ListID, &it.StoreID, &it.ProductName, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}
