package database

import (
	"context"
	"fmt"

	"merquelo/models"
	"merquelo/utils"
)

// ==================== FAVORITE STORE OPERATIONS ====================

// InsertFavorite saves a favorite store name. A name that is already saved
// is ignored rather than reported; the return value tells whether a row was
// actually written.
func (r *Repository) InsertFavorite(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO favorite_stores (name, name_key)
		VALUES (?, ?)
		ON CONFLICT(name_key) DO NOTHING
	`, name, utils.NameKey(name))
	if err != nil {
		return false, fmt.Errorf("insert favorite: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Repository) GetFavorites(ctx context.Context) ([]models.FavoriteStore, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name FROM favorite_stores ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("get favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]models.FavoriteStore, 0)
	for rows.Next() {
		var f models.FavoriteStore
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get favorites: %w", err)
	}
	return favorites, nil
}

// DeleteFavoriteByName removes a favorite compared case-insensitively.
func (r *Repository) DeleteFavoriteByName(ctx context.Context, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM favorite_stores WHERE name_key = ?", utils.NameKey(name))
	if err != nil {
		return 0, fmt.Errorf("delete favorite: %w", err)
	}
	return res.RowsAffected()
}
