package ports

import "math"

// PageRequest selects one window of a listing. Page is 0-based.
type PageRequest struct {
	Page     int
	PageSize int
}

// ListOptions carries the listing parameters shared by the catalog and the directory.
type ListOptions struct {
	// Sorted orders books by year of production and people by date of birth, ascending.
	Sorted bool
	// Page is nil for an unpaged listing.
	Page *PageRequest
}

// Offset returns the number of rows skipped before the requested page.
// Callers check Unreachable first; the product overflows past it.
func (p PageRequest) Offset() int {
	return p.Page * p.PageSize
}

// Unreachable reports a page whose offset does not fit in an int. No store
// can hold that many rows, so the page is empty.
func (p PageRequest) Unreachable() bool {
	return p.PageSize > 0 && p.Page > math.MaxInt/p.PageSize
}
