package numberutil

// Page describes the position of one page inside a counted result set.
type Page struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	Total           int64 `json:"total"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// Paginate computes page metadata for a total row count. Pages are 1-based;
// out-of-range inputs are clamped.
func Paginate(total int64, limit, page int) Page {
	if limit <= 0 {
		limit = 1
	}

	if page < 1 {
		page = 1
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return Page{
		Page:            page,
		Limit:           limit,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1 && total > 0,
	}
}

// Offset returns the row offset of a 1-based page.
func Offset(limit, page int) int {
	if page < 1 {
		page = 1
	}

	if limit <= 0 {
		limit = 1
	}

	return (page - 1) * limit
}
