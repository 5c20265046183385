package services

import (
	"context"
	"merquelo/utils"
	"sort"
	"strings"
)

// ==================== SUGGESTIONS ====================

// StoreSuggestions merges the built-in catalog, the favorite stores and every
// store name used in any list.
func (s *MarketService) StoreSuggestions(ctx context.Context) ([]string, error) {
	favorites, err := s.repo.GetFavorites(ctx)
	if err != nil {
		return nil, err
	}

	used, err := s.repo.GetDistinctStoreNames(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(favorites))
	for _, f := range favorites {
		names = append(names, f.Name)
	}

	return mergeSuggestions(s.catalog, names, used), nil
}

// StoreSuggestionsForList merges the built-in catalog with the stores the
// list already has.
func (s *MarketService) StoreSuggestionsForList(ctx context.Context, listID int64) ([]string, error) {
	names, err := s.repo.GetStoreNamesForList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return mergeSuggestions(s.catalog, names), nil
}

// ProductSuggestions returns every product name used in any list
func (s *MarketService) ProductSuggestions(ctx context.Context) ([]string, error) {
	products, err := s.repo.GetDistinctProductNames(ctx)
	if err != nil {
		return nil, err
	}
	return mergeSuggestions(products), nil
}

// mergeSuggestions concatenates the sources, keeps the first spelling seen
// for each case-insensitive name and sorts the result ignoring case.
func mergeSuggestions(sources ...[]string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0)

	for _, src := range sources {
		for _, name := range src {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			key := utils.NameKey(name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, name)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		ki, kj := utils.NameKey(merged[i]), utils.NameKey(merged[j])
		if ki != kj {
			return ki < kj
		}
		return merged[i] < merged[j]
	})

	return merged
}
