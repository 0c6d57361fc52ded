package models

// PageParams carries page-based pagination plus the ordering selected by the
// caller. Page numbers are 1-based; PageSize is fixed per endpoint.
type PageParams struct {
	Page     int
	PageSize int
	Ordering string // column name, "-" prefix for descending
}

// Offset returns the SQL offset for the current page
func (p PageParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Page is the list envelope returned by every list endpoint.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage assembles a page envelope. next and previous are absolute or
// relative URLs supplied by the HTTP layer; nil means no such page.
func NewPage[T any](results []T, count int64, next, previous *string) *Page[T] {
	if results == nil {
		results = []T{}
	}
	return &Page[T]{
		Count:    count,
		Next:     next,
		Previous: previous,
		Results:  results,
	}
}

// HasNext reports whether a later page exists for the given params
func HasNext(params PageParams, count int64) bool {
	return int64(params.Offset()+params.PageSize) < count
}

// HasPrevious reports whether an earlier page exists
func HasPrevious(params PageParams) bool {
	return params.Page > 1
}
