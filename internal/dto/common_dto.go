package dto

// Pagination is attached to every list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count from the total.
func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// PageQuery holds the pre-validated pagination inputs shared by every list
// endpoint: page >= 1, limit in [1, 50].
type PageQuery struct {
	Page  int
	Limit int
}

func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}
