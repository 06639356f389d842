package utils

import "strconv"

type Page[T any] struct {
	Items       []T   `json:"items"`
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// PageWindow resolves a requested page number the forgiving way: anything
// unparsable or below one is page 1, anything past the end is the last page.
// It returns the page number, total page count and row offset.
func PageWindow(requested string, total int64, size int) (page, pages, offset int) {
	if size <= 0 {
		size = 1
	}
	pages = int((total + int64(size) - 1) / int64(size))
	if pages == 0 {
		pages = 1
	}

	page, err := strconv.Atoi(requested)
	if err != nil || page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return page, pages, (page - 1) * size
}

func NewPage[T any](items []T, page, pages, size int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Page:        page,
		PageSize:    size,
		Total:       total,
		TotalPages:  pages,
		HasNext:     page < pages,
		HasPrevious: page > 1,
	}
}
