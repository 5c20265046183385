package services

import (
	"context"
	"merquelo/models"
	"merquelo/utils"
	"slices"
)

// ==================== FAVORITE STORES ====================

// AddFavoriteStore saves a store name as favorite. Blank names and names
// already saved are ignored.
func (s *MarketService) AddFavoriteStore(ctx context.Context, name string) error {
	normalized := utils.TitleCase(name)
	if normalized == "" {
		return nil
	}

	inserted, err := s.repo.InsertFavorite(ctx, normalized)
	if err != nil {
		return err
	}
	if !inserted {
		s.logger.Debug("favorite already saved", "name", normalized)
		return nil
	}

	s.logger.Info("favorite added", "name", normalized)
	s.refreshFavorites(ctx)
	return nil
}

// RemoveFavoriteStore deletes a favorite, matched case-insensitively
func (s *MarketService) RemoveFavoriteStore(ctx context.Context, name string) error {
	normalized := utils.TitleCase(name)

	n, err := s.repo.DeleteFavoriteByName(ctx, normalized)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	s.logger.Info("favorite removed", "name", normalized)
	s.refreshFavorites(ctx)
	return nil
}

// FavoriteStores returns the favorite store names in name order
func (s *MarketService) FavoriteStores(ctx context.Context) ([]string, error) {
	favorites, err := s.repo.GetFavorites(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(favorites))
	for _, f := range favorites {
		names = append(names, f.Name)
	}
	return names, nil
}

// SubscribeFavorites works like SubscribeLists for the favorite stores
func (s *MarketService) SubscribeFavorites(ctx context.Context) (<-chan []models.FavoriteStore, string, error) {
	return s.favorites.subscribe(ctx)
}

func (s *MarketService) refreshFavorites(ctx context.Context) {
	s.favorites.refresh(ctx)
}

func sameFavorites(a, b []models.FavoriteStore) bool {
	return slices.Equal(a, b)
}
