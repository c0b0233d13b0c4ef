package domain

import "errors"

var (
	// ErrUnknownRegion is returned when a region code is not in the supported set
	ErrUnknownRegion = errors.New("unknown region code")

	// ErrEmptyQuery is returned when the search query is empty after trimming
	ErrEmptyQuery = errors.New("search query must not be empty")

	// ErrNoRegions is returned when a search request names no regions
	ErrNoRegions = errors.New("at least one region is required")

	// ErrNoProducts is returned when every region came back empty
	ErrNoProducts = errors.New("no products found")

	// ErrNoExportData is returned when the exporter is given nothing to write
	ErrNoExportData = errors.New("no products to export")

	// ErrMarketplaceFailure is returned when a marketplace request fails
	ErrMarketplaceFailure = errors.New("marketplace request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
