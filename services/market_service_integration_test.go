package services

import (
	"context"
	"errors"
	"merquelo/database"
	"merquelo/models"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPollInterval = 20 * time.Millisecond

func setupTestService(t *testing.T, catalog ...string) (*MarketService, *database.DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "merquelo-service-test-*")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	service := NewMarketService(db, Config{Catalog: catalog, PollInterval: testPollInterval})

	cleanup := func() {
		service.Close()
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return service, db, cleanup
}

func receiveLists(t *testing.T, ch <-chan []models.MarketList) []models.MarketList {
	t.Helper()
	select {
	case lists, ok := <-ch:
		require.True(t, ok, "stream closed")
		return lists
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for lists")
	}
	return nil
}

func TestMarketService_CreateAndReadBack(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	listID, err := service.CreateListWithStoresAndItems(ctx, "Semana", []models.StoreProducts{
		{StoreName: "la vaquita", Products: []models.ProductQuantity{{Name: "leche", Quantity: 2}}},
		{StoreName: "D1", Products: []models.ProductQuantity{{Name: "pan", Quantity: 1}}},
	})
	require.NoError(t, err)

	detail, err := service.GetListDetail(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, "Semana", detail.Name)
	require.Len(t, detail.Stores, 2)

	assert.Equal(t, "La Vaquita", detail.Stores[0].StoreName)
	require.Len(t, detail.Stores[0].Items, 1)
	assert.Equal(t, "Leche", detail.Stores[0].Items[0].ProductName)
	assert.Equal(t, 2, detail.Stores[0].Items[0].Quantity)

	assert.Equal(t, "D1", detail.Stores[1].StoreName)
	require.Len(t, detail.Stores[1].Items, 1)
	assert.Equal(t, "Pan", detail.Stores[1].Items[0].ProductName)
	assert.Equal(t, 1, detail.Stores[1].Items[0].Quantity)

	names, err := service.StoreNamesForList(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, []string{"D1", "La Vaquita"}, names)
}

func TestMarketService_QuantityFloor(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	listID, err := service.CreateListWithStoresAndItems(ctx, "Pisos", []models.StoreProducts{
		{StoreName: "Ara", Products: []models.ProductQuantity{
			{Name: "a", Quantity: -5},
			{Name: "b", Quantity: 0},
			{Name: "c", Quantity: 1},
			{Name: "d", Quantity: 12},
		}},
	})
	require.NoError(t, err)

	items, err := service.GetItemsForList(ctx, listID)
	require.NoError(t, err)
	require.Len(t, items, 4)

	quantities := make([]int, 0, len(items))
	for _, it := range items {
		quantities = append(quantities, it.Quantity)
	}
	assert.Equal(t, []int{1, 1, 1, 12}, quantities)
}

func TestMarketService_AddProductsTwiceKeepsBothRows(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	listID, err := service.CreateListWithStoresAndItems(ctx, "Repetida", []models.StoreProducts{
		{StoreName: "Euro", Products: []models.ProductQuantity{{Name: "arroz", Quantity: 1}}},
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		err := service.AddProductsToList(ctx, listID, "euro", []models.ProductQuantity{{Name: "Leche", Quantity: 3}})
		require.NoError(t, err)
	}

	stores, err := service.GetStoresForList(ctx, listID)
	require.NoError(t, err)
	require.Len(t, stores, 1, "store must be reused, not duplicated")

	detail, err := service.GetListDetail(ctx, listID)
	require.NoError(t, err)

	leche := 0
	for _, entry := range detail.Stores[0].Items {
		if entry.ProductName == "Leche" {
			leche++
			assert.Equal(t, 3, entry.Quantity)
		}
	}
	assert.Equal(t, 2, leche)
}

func TestMarketService_AddProductsToMissingList(t *testing.T) {
	service, db, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	err := service.AddProductsToList(ctx, 404, "Ara", []models.ProductQuantity{{Name: "pan", Quantity: 1}})
	assert.ErrorIs(t, err, ErrListNotFound)

	stores, err := db.Repository().GetDistinctStoreNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, stores)
}

func TestMarketService_GetListDetailNotFound(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	detail, err := service.GetListDetail(context.Background(), 12345)
	assert.Nil(t, detail)
	assert.True(t, errors.Is(err, database.ErrNotFound))
}

func TestMarketService_RemoveOperations(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	listID, err := service.CreateListWithStoresAndItems(ctx, "Limpieza", []models.StoreProducts{
		{StoreName: "Carulla", Products: []models.ProductQuantity{{Name: "jabón", Quantity: 1}, {Name: "cloro", Quantity: 2}}},
		{StoreName: "Éxito", Products: []models.ProductQuantity{{Name: "escoba", Quantity: 1}}},
	})
	require.NoError(t, err)

	t.Run("Removing a product from a missing store changes nothing", func(t *testing.T) {
		require.NoError(t, service.RemoveProductFromList(ctx, listID, "D1", "cloro"))

		items, err := service.GetItemsForList(ctx, listID)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("Removing a product matches case-insensitively", func(t *testing.T) {
		require.NoError(t, service.RemoveProductFromList(ctx, listID, "CARULLA", "JABÓN"))

		items, err := service.GetItemsForList(ctx, listID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		for _, it := range items {
			assert.NotEqual(t, "Jabón", it.ProductName)
		}
	})

	t.Run("Removing a store drops its items", func(t *testing.T) {
		require.NoError(t, service.RemoveStoreFromList(ctx, listID, "éxito"))

		detail, err := service.GetListDetail(ctx, listID)
		require.NoError(t, err)
		require.Len(t, detail.Stores, 1)
		assert.Equal(t, "Carulla", detail.Stores[0].StoreName)

		items, err := service.GetItemsForList(ctx, listID)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("Removing a missing store is a no-op", func(t *testing.T) {
		assert.NoError(t, service.RemoveStoreFromList(ctx, listID, "No Existe"))
	})
}

func TestMarketService_DeleteListCascades(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	listID, err := service.CreateListWithStoresAndItems(ctx, "Borrar", []models.StoreProducts{
		{StoreName: "Ara", Products: []models.ProductQuantity{{Name: "pan", Quantity: 1}}},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteList(ctx, listID))

	stores, err := service.GetStoresForList(ctx, listID)
	require.NoError(t, err)
	assert.Empty(t, stores)

	items, err := service.GetItemsForList(ctx, listID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = service.GetListDetail(ctx, listID)
	assert.ErrorIs(t, err, ErrListNotFound)

	// Deleting again is silent
	assert.NoError(t, service.DeleteList(ctx, listID))
}

func TestMarketService_CreateRollsBackOnFailure(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.CreateListWithStoresAndItems(ctx, "Cancelada", []models.StoreProducts{
		{StoreName: "Ara", Products: []models.ProductQuantity{{Name: "pan", Quantity: 1}}},
	})
	require.Error(t, err)

	lists, err := service.GetLists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestMarketService_CreateRollsBackMidCommand(t *testing.T) {
	service, db, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	_, err := db.Exec(`CREATE TRIGGER reject_veneno BEFORE INSERT ON list_items
		WHEN NEW.name_key = 'veneno'
		BEGIN SELECT RAISE(ABORT, 'product rejected'); END`)
	require.NoError(t, err)

	// The list, the first store with its item and the second store are all
	// written before the last product fails
	_, err = service.CreateListWithStoresAndItems(ctx, "Incompleta", []models.StoreProducts{
		{StoreName: "Ara", Products: []models.ProductQuantity{{Name: "pan", Quantity: 1}}},
		{StoreName: "Euro", Products: []models.ProductQuantity{{Name: "leche", Quantity: 2}, {Name: "veneno", Quantity: 1}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product rejected")

	lists, err := service.GetLists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)

	repo := db.Repository()
	stores, err := repo.GetDistinctStoreNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, stores)

	products, err := repo.GetDistinctProductNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestMarketService_FavoritesDeduplicate(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, service.AddFavoriteStore(ctx, "ara"))
	require.NoError(t, service.AddFavoriteStore(ctx, "Ara"))
	require.NoError(t, service.AddFavoriteStore(ctx, "  "))

	favorites, err := service.FavoriteStores(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ara"}, favorites)

	require.NoError(t, service.RemoveFavoriteStore(ctx, "ARA"))
	favorites, err = service.FavoriteStores(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestMarketService_Suggestions(t *testing.T) {
	service, _, cleanup := setupTestService(t, "D1")
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, service.AddFavoriteStore(ctx, "ara"))
	listID, err := service.CreateListWithStoresAndItems(ctx, "Usadas", []models.StoreProducts{
		{StoreName: "D1", Products: []models.ProductQuantity{{Name: "pan", Quantity: 1}}},
		{StoreName: "Euro", Products: []models.ProductQuantity{{Name: "leche", Quantity: 1}, {Name: "Pan", Quantity: 1}}},
	})
	require.NoError(t, err)

	t.Run("Store suggestions merge catalog favorites and used names", func(t *testing.T) {
		suggestions, err := service.StoreSuggestions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ara", "D1", "Euro"}, suggestions)
	})

	t.Run("List suggestions use only that list", func(t *testing.T) {
		other, err := service.CreateListWithStoresAndItems(ctx, "Otra", []models.StoreProducts{
			{StoreName: "Carulla", Products: []models.ProductQuantity{{Name: "queso", Quantity: 1}}},
		})
		require.NoError(t, err)

		suggestions, err := service.StoreSuggestionsForList(ctx, listID)
		require.NoError(t, err)
		assert.Equal(t, []string{"D1", "Euro"}, suggestions)

		suggestions, err = service.StoreSuggestionsForList(ctx, other)
		require.NoError(t, err)
		assert.Equal(t, []string{"Carulla", "D1"}, suggestions)
	})

	t.Run("Product suggestions are distinct", func(t *testing.T) {
		products, err := service.ProductSuggestions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Leche", "Pan", "Queso"}, products)
	})
}

func TestMarketService_SubscribeLists(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	first, err := service.CreateListWithStoresAndItems(ctx, "Primera", nil)
	require.NoError(t, err)

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, subID, err := service.SubscribeLists(subCtx)
	require.NoError(t, err)
	assert.NotEmpty(t, subID)

	initial := receiveLists(t, ch)
	require.Len(t, initial, 1)
	assert.Equal(t, first, initial[0].ID)

	second, err := service.CreateListWithStoresAndItems(ctx, "Segunda", nil)
	require.NoError(t, err)

	afterCreate := receiveLists(t, ch)
	require.Len(t, afterCreate, 2)
	assert.Equal(t, second, afterCreate[0].ID, "newest list first")

	require.NoError(t, service.DeleteList(ctx, first))

	afterDelete := receiveLists(t, ch)
	require.Len(t, afterDelete, 1)
	assert.Equal(t, second, afterDelete[0].ID)

	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-ch
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestMarketService_SubscribeFavorites(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := testContext(t)

	ch, _, err := service.SubscribeFavorites(ctx)
	require.NoError(t, err)

	select {
	case favorites := <-ch:
		assert.Empty(t, favorites)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for favorites")
	}

	require.NoError(t, service.AddFavoriteStore(ctx, "euro"))

	select {
	case favorites := <-ch:
		require.Len(t, favorites, 1)
		assert.Equal(t, "Euro", favorites[0].Name)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for favorites")
	}
}

func TestMarketService_StreamsSeeWritesFromOtherConnections(t *testing.T) {
	service, db, cleanup := setupTestService(t)
	defer cleanup()

	// A second service on the same file stands in for another process
	other := NewMarketService(db, Config{})
	defer other.Close()

	ctx := testContext(t)

	t.Run("Lists", func(t *testing.T) {
		ch, _, err := service.SubscribeLists(ctx)
		require.NoError(t, err)
		assert.Empty(t, receiveLists(t, ch))

		listID, err := other.CreateListWithStoresAndItems(ctx, "Otra", nil)
		require.NoError(t, err)

		lists := receiveLists(t, ch)
		require.Len(t, lists, 1)
		assert.Equal(t, listID, lists[0].ID)

		require.NoError(t, other.DeleteList(ctx, listID))
		assert.Empty(t, receiveLists(t, ch))
	})

	t.Run("Favorites", func(t *testing.T) {
		ch, _, err := service.SubscribeFavorites(ctx)
		require.NoError(t, err)

		select {
		case favorites := <-ch:
			assert.Empty(t, favorites)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for favorites")
		}

		require.NoError(t, other.AddFavoriteStore(ctx, "carulla"))

		select {
		case favorites := <-ch:
			require.Len(t, favorites, 1)
			assert.Equal(t, "Carulla", favorites[0].Name)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for favorites")
		}
	})
}

func TestMarketService_PollerStopsWithoutSubscribers(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	subCtx, cancel := context.WithCancel(context.Background())
	ch, _, err := service.SubscribeLists(subCtx)
	require.NoError(t, err)
	receiveLists(t, ch)

	isPolling := func() bool {
		service.lists.mu.Lock()
		defer service.lists.mu.Unlock()
		return service.lists.polling
	}
	assert.True(t, isPolling())

	cancel()
	assert.Eventually(t, func() bool { return !isPolling() }, time.Second, 10*time.Millisecond)

	// A new subscriber starts polling again
	ch, _, err = service.SubscribeLists(testContext(t))
	require.NoError(t, err)
	receiveLists(t, ch)
	assert.True(t, isPolling())
}
