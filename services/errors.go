package services

import "merquelo/database"

// Common service-level errors
var (
	// ErrListNotFound is returned when a list id matches no row. It is the
	// query layer's sentinel, so errors.Is works with either name.
	ErrListNotFound = database.ErrNotFound
)
