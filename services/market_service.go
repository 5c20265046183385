package services

import (
	"context"
	"log/slog"
	"merquelo/database"
	"merquelo/models"
	"merquelo/utils"
	"slices"
	"time"
)

// DefaultStoreCatalog is the built-in set of store names offered as
// suggestions before the user has saved anything.
var DefaultStoreCatalog = []string{"D1", "Euro", "La Vaquita", "Éxito", "Carulla", "Ara"}

// Config holds optional MarketService settings
type Config struct {
	// Catalog replaces DefaultStoreCatalog when non-empty
	Catalog []string
	Logger  *slog.Logger
	// Now stamps new lists; defaults to time.Now
	Now func() time.Time
	// PollInterval defaults to DefaultPollInterval
	PollInterval time.Duration
}

// MarketService is the repository of the shopping-list domain. It composes
// query layer calls into domain operations, normalizes every store and
// product name, and keeps the list and favorite streams up to date.
//
// Snapshots handed to subscribers are shared between them and must be
// treated as read-only.
type MarketService struct {
	repo    MarketRepository
	tx      TxRunner
	catalog []string
	now     func() time.Time
	logger  *slog.Logger

	lists     *liveSnapshot[[]models.MarketList]
	favorites *liveSnapshot[[]models.FavoriteStore]
}

// NewMarketService creates a market service backed by db
func NewMarketService(db *database.DB, cfg Config) *MarketService {
	return newMarketService(db.Repository(), dbTxRunner{db: db}, cfg)
}

func newMarketService(repo MarketRepository, tx TxRunner, cfg Config) *MarketService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	catalog := cfg.Catalog
	if len(catalog) == 0 {
		catalog = DefaultStoreCatalog
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &MarketService{
		repo:      repo,
		tx:        tx,
		catalog:   catalog,
		now:       now,
		logger:    logger.With("component", "market"),
		lists:     newLiveSnapshot("lists", repo.GetLists, sameLists, interval, logger),
		favorites: newLiveSnapshot("favorites", repo.GetFavorites, sameFavorites, interval, logger),
	}
}

// Close stops the stream pollers and ends every active subscription
func (s *MarketService) Close() {
	s.lists.close()
	s.favorites.close()
}

// ==================== LISTS ====================

// CreateListWithStoresAndItems creates a list, one store per entry and one
// item per product, all in a single transaction. Store and product names are
// normalized and quantities floored at 1. Entries whose store names normalize
// to the same value share one store row. Returns the new list id.
func (s *MarketService) CreateListWithStoresAndItems(ctx context.Context, listName string, stores []models.StoreProducts) (int64, error) {
	var listID int64
	itemCount := 0

	err := s.tx.WithTx(ctx, func(repo MarketRepository) error {
		id, err := repo.InsertList(ctx, listName, s.now())
		if err != nil {
			return err
		}
		listID = id

		storeIDs := make(map[string]int64, len(stores))
		for _, sp := range stores {
			name := utils.TitleCase(sp.StoreName)
			key := utils.NameKey(name)

			storeID, ok := storeIDs[key]
			if !ok {
				storeID, err = repo.InsertStore(ctx, listID, name)
				if err != nil {
					return err
				}
				storeIDs[key] = storeID
			}

			if err := insertProducts(ctx, repo, listID, storeID, sp.Products); err != nil {
				return err
			}
			itemCount += len(sp.Products)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("list created", "list_id", listID, "stores", len(stores), "items", itemCount)
	s.refreshLists(ctx)
	return listID, nil
}

// AddProductsToList adds products under a store of an existing list. The
// store is matched case-insensitively and created when missing. Products are
// always inserted as new rows: adding a product the store already has leaves
// two rows rather than merging quantities.
func (s *MarketService) AddProductsToList(ctx context.Context, listID int64, storeName string, products []models.ProductQuantity) error {
	name := utils.TitleCase(storeName)

	err := s.tx.WithTx(ctx, func(repo MarketRepository) error {
		if _, err := repo.GetListByID(ctx, listID); err != nil {
			return err
		}

		store, err := repo.FindStoreByName(ctx, listID, name)
		if err != nil {
			return err
		}

		var storeID int64
		if store != nil {
			storeID = store.ID
		} else {
			storeID, err = repo.InsertStore(ctx, listID, name)
			if err != nil {
				return err
			}
		}

		return insertProducts(ctx, repo, listID, storeID, products)
	})
	if err != nil {
		return err
	}

	s.logger.Info("products added", "list_id", listID, "store", name, "items", len(products))
	return nil
}

func insertProducts(ctx context.Context, repo MarketRepository, listID, storeID int64, products []models.ProductQuantity) error {
	for _, p := range products {
		if _, err := repo.InsertItem(ctx, listID, storeID, utils.TitleCase(p.Name), utils.CoerceQuantity(p.Quantity)); err != nil {
			return err
		}
	}
	return nil
}

// GetListDetail returns the list with its stores and their products. A list
// id that matches nothing yields ErrListNotFound.
func (s *MarketService) GetListDetail(ctx context.Context, listID int64) (*models.ListDetail, error) {
	list, err := s.repo.GetListByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	stores, err := s.repo.GetStoresForList(ctx, listID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsForList(ctx, listID)
	if err != nil {
		return nil, err
	}

	byStore := make(map[int64][]models.ProductEntry, len(stores))
	for _, it := range items {
		byStore[it.StoreID] = append(byStore[it.StoreID], models.ProductEntry{
			ItemID:      it.ID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
		})
	}

	detail := &models.ListDetail{
		ListID:    list.ID,
		Name:      list.Name,
		CreatedAt: list.CreatedAt,
		Stores:    make([]models.StoreGroup, 0, len(stores)),
	}
	for _, st := range stores {
		entries := byStore[st.ID]
		if entries == nil {
			entries = []models.ProductEntry{}
		}
		detail.Stores = append(detail.Stores, models.StoreGroup{
			StoreID:   st.ID,
			StoreName: st.StoreName,
			Items:     entries,
		})
	}

	return detail, nil
}

// GetLists returns every list, newest first
func (s *MarketService) GetLists(ctx context.Context) ([]models.MarketList, error) {
	return s.repo.GetLists(ctx)
}

func (s *MarketService) GetStoresForList(ctx context.Context, listID int64) ([]models.ListStore, error) {
	return s.repo.GetStoresForList(ctx, listID)
}

func (s *MarketService) GetItemsForList(ctx context.Context, listID int64) ([]models.ListItem, error) {
	return s.repo.GetItemsForList(ctx, listID)
}

func (s *MarketService) StoreNamesForList(ctx context.Context, listID int64) ([]string, error) {
	return s.repo.GetStoreNamesForList(ctx, listID)
}

// RemoveStoreFromList deletes the store and, through the cascade, its items.
// Removing a store the list does not have is a no-op.
func (s *MarketService) RemoveStoreFromList(ctx context.Context, listID int64, storeName string) error {
	name := utils.TitleCase(storeName)

	n, err := s.repo.DeleteStoreByName(ctx, listID, name)
	if err != nil {
		return err
	}

	s.logger.Debug("store removed", "list_id", listID, "store", name, "rows", n)
	return nil
}

// RemoveProductFromList deletes every item with the given product name from
// the store. Nothing happens when the store does not exist.
func (s *MarketService) RemoveProductFromList(ctx context.Context, listID int64, storeName, productName string) error {
	store := utils.TitleCase(storeName)
	product := utils.TitleCase(productName)

	var removed int64
	err := s.tx.WithTx(ctx, func(repo MarketRepository) error {
		st, err := repo.FindStoreByName(ctx, listID, store)
		if err != nil {
			return err
		}
		if st == nil {
			return nil
		}

		removed, err = repo.DeleteItemByName(ctx, listID, st.ID, product)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Debug("product removed", "list_id", listID, "store", store, "product", product, "rows", removed)
	return nil
}

// DeleteList deletes the list with its stores and items. Unknown ids are
// ignored.
func (s *MarketService) DeleteList(ctx context.Context, listID int64) error {
	removed, err := s.repo.DeleteList(ctx, listID)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	s.logger.Info("list deleted", "list_id", listID)
	s.refreshLists(ctx)
	return nil
}

// ==================== LIST STREAM ====================

// SubscribeLists returns a stream of the full list collection, newest first.
// The current collection is delivered immediately, followed by a fresh one
// whenever lists are created or deleted, whether through this service or
// any other connection to the same database. The subscription ends when ctx
// is done.
func (s *MarketService) SubscribeLists(ctx context.Context) (<-chan []models.MarketList, string, error) {
	return s.lists.subscribe(ctx)
}

func (s *MarketService) refreshLists(ctx context.Context) {
	s.lists.refresh(ctx)
}

func sameLists(a, b []models.MarketList) bool {
	return slices.EqualFunc(a, b, func(x, y models.MarketList) bool {
		return x.ID == y.ID && x.Name == y.Name && x.CreatedAt.Equal(y.CreatedAt)
	})
}
