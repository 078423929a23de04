package domain

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PaginationParams selects one page of a listing. Page counts from 1.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams normalizes optional query values. Missing or
// non-positive values take the defaults (page 1, limit 20); limit never
// exceeds 100.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: defaultPageLimit}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, maxPageLimit)
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Next returns the following page, or nil when this page reaches the end
// of a listing holding total rows.
func (p PaginationParams) Next(total int64) *PaginationParams {
	if int64(p.Offset()+p.Limit) >= total {
		return nil
	}
	return &PaginationParams{Page: p.Page + 1, Limit: p.Limit}
}

// Prev returns the preceding page, or nil on the first page.
func (p PaginationParams) Prev() *PaginationParams {
	if p.Page <= 1 {
		return nil
	}
	return &PaginationParams{Page: p.Page - 1, Limit: p.Limit}
}
