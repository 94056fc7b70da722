// Package pagination derives page metadata for list responses.
//
// The calculation is pure: it never touches storage and is recomputed for
// every list request from the total row count reported by the repository.
package pagination

// Meta describes the shape of one page within a larger result set.
type Meta struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// Calculate converts a total item count, page size, and offset into page
// metadata. A non-positive page size yields zero total pages and page one
// rather than dividing by zero.
func Calculate(totalItems, pageSize, offset int) Meta {
	m := Meta{
		TotalItems:  totalItems,
		PageSize:    pageSize,
		TotalPages:  0,
		CurrentPage: 1,
	}

	if pageSize <= 0 {
		return m
	}

	m.TotalPages = (totalItems + pageSize - 1) / pageSize
	m.CurrentPage = offset/pageSize + 1
	return m
}
