package reporting

import "sort"

// DefaultPageSize is the number of groups per page.
const DefaultPageSize = 12

// Page is one slice of a paginated sequence.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalPages int  `json:"totalPages"`
	TotalCount int  `json:"totalCount"`
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

// SortByExpiration orders groups by earliest expiration date; undated groups
// go last. The sort is stable.
func SortByExpiration(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].ExpirationDate, groups[j].ExpirationDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(b.Time)
		}
	})
}

// TotalPages is max(1, ceil(count / pageSize)).
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns the 1-based page of items. Out of range page numbers are
// clamped to the first or last page.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := TotalPages(len(items), pageSize)
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	slice := make([]T, 0, end-start)
	slice = append(slice, items[start:end]...)

	return Page[T]{
		Items:      slice,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: total,
		TotalCount: len(items),
		HasPrev:    page > 1,
		HasNext:    page < total,
	}
}
