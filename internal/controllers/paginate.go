package controllers

// PageSizeAll disables pagination.
const PageSizeAll = -1

// PageSizes are the rows-per-page choices offered to the user.
var PageSizes = []int{5, 10, 25, PageSizeAll}

// Paginate returns items[page*size : page*size+size], clipped to the slice.
// A non-positive size returns every item. Order is never changed.
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	if page < 0 {
		return items[:0:0]
	}
	start := page * size
	if start >= len(items) {
		return items[:0:0]
	}
	end := min(start+size, len(items))
	return items[start:end:end]
}

// PageCount is the number of pages needed for total items, at least 1.
func PageCount(total, size int) int {
	if size <= 0 || total <= size {
		return 1
	}
	return (total + size - 1) / size
}

// NextPageSize cycles through PageSizes starting after current.
func NextPageSize(current int) int {
	for i, s := range PageSizes {
		if s == current {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return PageSizes[0]
}
