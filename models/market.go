package models

import "time"

type MarketList struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type ListStore struct {
	ID        int64  `json:"id"`
	ListID    int64  `json:"list_id"`
	StoreName string `json:"store_name"`
}

type ListItem struct {
	ID          int64  `json:"id"`
	ListID      int64  `json:"list_id"`
	StoreID     int64  `json:"store_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type FavoriteStore struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductQuantity is a raw (not yet normalized) product name with the
// quantity requested by the caller.
type ProductQuantity struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// StoreProducts groups the products to buy in one store when building a list.
type StoreProducts struct {
	StoreName string            `json:"store_name"`
	Products  []ProductQuantity `json:"products"`
}

// ListDetail is the hierarchical read model of a single list.
type ListDetail struct {
	ListID    int64        `json:"list_id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
	Stores    []StoreGroup `json:"stores"`
}

type StoreGroup struct {
	StoreID   int64          `json:"store_id"`
	StoreName string         `json:"store_name"`
	Items     []ProductEntry `json:"items"`
}

type ProductEntry struct {
	ItemID      int64  `json:"item_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// Request types used by the command line front end

type CreateListRequest struct {
	Name   string   `json:"name" validate:"required,notblank,max=100"`
	Stores []string `json:"stores" validate:"required,min=1,dive,storespec"`
}

type AddProductsRequest struct {
	ListID   int64    `json:"list_id" validate:"required,gt=0"`
	Store    string   `json:"store" validate:"required,notblank"`
	Products []string `json:"products" validate:"required,min=1,dive,productspec"`
}

type RemoveProductRequest struct {
	ListID  int64  `json:"list_id" validate:"required,gt=0"`
	Store   string `json:"store" validate:"required,notblank"`
	Product string `json:"product" validate:"required,notblank"`
}

type ListRefRequest struct {
	ListID int64 `json:"list_id" validate:"required,gt=0"`
}

type FavoriteRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}
