package shared

import "math"

// Pagination contains metadata for paginated listings. Total counts
// distinct vouchers, not lines.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata, clamping page and limit to
// sane defaults.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
