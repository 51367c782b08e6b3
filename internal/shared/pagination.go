package shared

import "math"

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a further page exists.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// Prev returns the previous page number, or 0 when on the first page.
func (p Pagination) Prev() int {
	if !p.HasPrev() {
		return 0
	}
	return p.Page - 1
}

// Next returns the next page number, or 0 when on the last page.
func (p Pagination) Next() int {
	if !p.HasNext() {
		return 0
	}
	return p.Page + 1
}

// Offset returns the number of records to skip for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}
