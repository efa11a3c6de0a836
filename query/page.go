package query

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage is the largest page whose skip fits in an int for every valid page size.
	MaxPage = math.MaxInt/MaxPageSize + 1
)

// PageWindow selects a 1-based page of PageSize items.
type PageWindow struct {
	Page     int
	PageSize int
}

// NewPageWindow validates 1 <= page <= MaxPage and 1 <= pageSize <= MaxPageSize.
func NewPageWindow(page, pageSize int) (PageWindow, error) {
	if page < 1 || page > MaxPage || pageSize < 1 {
		return PageWindow{}, parseError(ErrInvalidPageWindow, "page %d, page size %d", page, pageSize)
	}

	if pageSize > MaxPageSize {
		return PageWindow{}, parseError(ErrPageSizeExceedsMaximum, "page size %d > %d", pageSize, MaxPageSize)
	}

	return PageWindow{Page: page, PageSize: pageSize}, nil
}

// DefaultPageWindow is the first page with DefaultPageSize items.
func DefaultPageWindow() PageWindow {
	return PageWindow{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Skip returns the number of items before the window. It saturates at math.MaxInt
// and is 0 for windows with a page or page size below 1.
func (w PageWindow) Skip() int {
	if w.Page < 1 || w.PageSize < 1 {
		return 0
	}

	if w.Page-1 > math.MaxInt/w.PageSize {
		return math.MaxInt
	}

	return (w.Page - 1) * w.PageSize
}
