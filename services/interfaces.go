package services

import (
	"context"
	"merquelo/database"
	"merquelo/models"
	"time"
)

// MarketRepository defines the query layer operations the market service
// composes. *database.Repository implements it.
type MarketRepository interface {
	InsertList(ctx context.Context, name string, createdAt time.Time) (int64, error)
	GetLists(ctx context.Context) ([]models.MarketList, error)
	GetListByID(ctx context.Context, id int64) (*models.MarketList, error)
	DeleteList(ctx context.Context, id int64) (bool, error)

	InsertStore(ctx context.Context, listID int64, name string) (int64, error)
	GetStoresForList(ctx context.Context, listID int64) ([]models.ListStore, error)
	FindStoreByName(ctx context.Context, listID int64, name string) (*models.ListStore, error)
	GetDistinctStoreNames(ctx context.Context) ([]string, error)
	GetStoreNamesForList(ctx context.Context, listID int64) ([]string, error)
	DeleteStoreByName(ctx context.Context, listID int64, name string) (int64, error)

	InsertItem(ctx context.Context, listID, storeID int64, name string, quantity int) (int64, error)
	GetItemsForStore(ctx context.Context, storeID int64) ([]models.ListItem, error)
	GetItemsForList(ctx context.Context, listID int64) ([]models.ListItem, error)
	GetDistinctProductNames(ctx context.Context) ([]string, error)
	DeleteItemByName(ctx context.Context, listID, storeID int64, name string) (int64, error)

	InsertFavorite(ctx context.Context, name string) (bool, error)
	GetFavorites(ctx context.Context) ([]models.FavoriteStore, error)
	DeleteFavoriteByName(ctx context.Context, name string) (int64, error)
}

// TxRunner runs fn inside one storage transaction
type TxRunner interface {
	WithTx(ctx context.Context, fn func(MarketRepository) error) error
}

var _ MarketRepository = (*database.Repository)(nil)

// dbTxRunner adapts *database.DB to TxRunner
type dbTxRunner struct {
	db *database.DB
}

func (r dbTxRunner) WithTx(ctx context.Context, fn func(MarketRepository) error) error {
	return r.db.WithTx(ctx, func(repo *database.Repository) error {
		return fn(repo)
	})
}
