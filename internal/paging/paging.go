// Package paging slices pre-sorted result collections into keyboard pages.
package paging

// Page size bounds enforced on every list request.
const (
	MinLimit     = 2
	MaxLimit     = 20
	DefaultLimit = 8
)

// ClampLimit bounds a requested page size to [MinLimit, MaxLimit].
func ClampLimit(limit int) int {
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Page returns the window of items for the given page index. A negative
// index is the sentinel for the last page: the remainder of the collection,
// or the last full window when the collection divides evenly. An empty
// window is a valid outcome, not an error.
//
// resolved is the effective page index after sentinel resolution. hasNext is
// false exactly when the window is shorter than pageSize; hasPrev is true
// for any page after the first.
func Page[T any](items []T, pageIndex, pageSize int) (window []T, resolved int, hasPrev, hasNext bool) {
	if pageSize <= 0 {
		return nil, 0, false, false
	}

	total := len(items)

	if pageIndex >= 0 {
		start := pageIndex * pageSize
		if start >= total {
			return nil, pageIndex, pageIndex > 0, false
		}
		end := start + pageSize
		if end > total {
			end = total
		}
		window = items[start:end]
		return window, pageIndex, pageIndex > 0, len(window) == pageSize
	}

	resolved = total / pageSize
	remainder := total % pageSize
	switch {
	case total == 0:
		window = nil
	case remainder == 0:
		window = items[total-pageSize:]
	default:
		window = items[total-remainder:]
	}

	return window, resolved, resolved > 0, len(window) == pageSize
}
