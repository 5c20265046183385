package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"merquelo/models"
)

var (
	ErrEmptyProduct = errors.New("product name is empty")
	ErrEmptyStore   = errors.New("store name is empty")
)

// ParseProductSpec parses "name[:qty]". The quantity suffix is only taken when
// it is an integer, so names that contain a colon survive untouched. Missing
// quantities default to 1; out-of-range ones are left for the repository to
// coerce.
func ParseProductSpec(spec string) (models.ProductQuantity, error) {
	spec = strings.TrimSpace(spec)
	name, qty := spec, 1
	if i := strings.LastIndex(spec, ":"); i >= 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(spec[i+1:])); err == nil {
			name, qty = strings.TrimSpace(spec[:i]), n
		}
	}
	if name == "" {
		return models.ProductQuantity{}, ErrEmptyProduct
	}
	return models.ProductQuantity{Name: name, Quantity: qty}, nil
}

// ParseStoreSpec parses "store=product[:qty],product[:qty],...".
func ParseStoreSpec(spec string) (models.StoreProducts, error) {
	store, products, ok := strings.Cut(spec, "=")
	if !ok {
		return models.StoreProducts{}, fmt.Errorf("store spec %q: missing '='", spec)
	}
	store = strings.TrimSpace(store)
	if store == "" {
		return models.StoreProducts{}, ErrEmptyStore
	}

	out := models.StoreProducts{StoreName: store}
	for _, p := range strings.Split(products, ",") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		pq, err := ParseProductSpec(p)
		if err != nil {
			return models.StoreProducts{}, fmt.Errorf("store %q: %w", store, err)
		}
		out.Products = append(out.Products, pq)
	}
	if len(out.Products) == 0 {
		return models.StoreProducts{}, fmt.Errorf("store %q: %w", store, ErrEmptyProduct)
	}
	return out, nil
}
