package listing

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Viewport breakpoints, in CSS pixels, and the number of cards shown below each.
var widthBreakpoints = []struct {
	below int
	size  int
}{
	{below: 640, size: 4},
	{below: 1024, size: 6},
	{below: 1536, size: 9},
}

// PageSizeForWidth picks how many cards fit a viewport of the given width.
// Unknown widths (<= 0) use DefaultPageSize.
func PageSizeForWidth(width int) int {
	if width <= 0 {
		return DefaultPageSize
	}
	for _, bp := range widthBreakpoints {
		if width < bp.below {
			return bp.size
		}
	}
	return DefaultPageSize
}

// ResolvePageSize prefers an explicit size, clamped to MaxPageSize, and
// otherwise derives one from the viewport width.
func ResolvePageSize(explicit, width int) int {
	if explicit > MaxPageSize {
		return MaxPageSize
	}
	if explicit > 0 {
		return explicit
	}
	return PageSizeForWidth(width)
}

// Page is one window over a filtered, sorted list.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// Paginate cuts the requested page out of items. Out-of-range page numbers are
// clamped to the first or last page.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size

	if number < 1 {
		number = 1
	}
	if pages > 0 && number > pages {
		number = pages
	}
	if pages == 0 {
		number = 1
	}

	start := (number - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	window := make([]T, end-start)
	copy(window, items[start:end])
	return Page[T]{
		Items:      window,
		Number:     number,
		Size:       size,
		TotalItems: total,
		TotalPages: pages,
	}
}

// Request carries the paging inputs of a list call.
type Request struct {
	Page          int
	PageSize      int
	ViewportWidth int
}

// Size resolves the effective page size for r.
func (r Request) Size() int {
	return ResolvePageSize(r.PageSize, r.ViewportWidth)
}
