package domain

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*MaxLimit within int.
	MaxPage = math.MaxInt / MaxLimit
)

// Page is a 1-based skip/limit request.
type Page struct {
	Page  int
	Limit int
}

// Normalize fills defaults and clamps the limit to MaxLimit and the page
// to MaxPage.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of records to skip. It saturates at math.MaxInt
// and is never negative.
func (p Page) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Bounds returns the half-open slice range of this page over n records
// ordered newest first. A page past the end yields an empty range.
func (p Page) Bounds(n int) (start, end int) {
	start = p.Offset()
	if start > n {
		start = n
	}
	if start < 0 {
		start = 0
	}
	end = start
	if p.Limit > 0 {
		end = start + min(p.Limit, n-start)
	}
	return start, end
}

// PageResult is one page of items plus the total match count.
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPageResult assembles a PageResult, never returning a nil Items slice.
func NewPageResult[T any](items []T, total int64, p Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return PageResult[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}
