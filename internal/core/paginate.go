package core

// DefaultPageSize is the number of rows shown per dashboard page.
// 69 rows keeps 23 three-row consumer blocks on a page.
const DefaultPageSize = 69

// Page is one window over a result set.
type Page struct {
	Rows       []Record
	Number     int // 1-based page number that was requested
	Size       int
	TotalRows  int
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool {
	return p.Number > 1 && p.TotalPages > 0
}

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// SeparatorAfter reports whether a visual block separator belongs after the
// i-th displayed row: after every third row, except the last one.
func (p Page) SeparatorAfter(i int) bool {
	return i%expandWindow == expandWindow-1 && i != len(p.Rows)-1
}

// TotalPages returns ceil(count/size), or 0 when count is 0.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Paginate returns the 1-based page of results. It computes bounds only: a
// page outside [1, TotalPages] yields no rows. Callers clamp with ClampPage.
func Paginate(results []Record, size, page int) Page {
	p := Page{
		Number:     page,
		Size:       size,
		TotalRows:  len(results),
		TotalPages: TotalPages(len(results), size),
	}
	if page < 1 || page > p.TotalPages {
		return p
	}

	start := (page - 1) * size
	end := min(start+size, len(results))
	p.Rows = results[start:end]
	return p
}

// ClampPage limits page to [1, totalPages]. With no pages it returns 1.
func ClampPage(page, totalPages int) int {
	if page < 1 || totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
