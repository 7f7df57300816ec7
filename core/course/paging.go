package course

const DefaultPageSize = 5

// TotalPages is ceil(n/size); an empty list has no pages.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	pages := n / size
	if n%size != 0 {
		pages++
	}
	return pages
}

// Paginate returns the items of page number `page` (1-based), clipped to bounds.
func Paginate[T any](items []T, size, page int) []T {
	// compare page numbers before multiplying: (page-1)*size overflows for huge pages
	if size <= 0 || page < 1 || page > TotalPages(len(items), size) {
		return []T{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PageState tracks the current page of a paginated view.
type PageState struct {
	Current int
	Size    int
}

func NewPageState() PageState {
	return PageState{Current: 1, Size: DefaultPageSize}
}

func (ps *PageState) size() int {
	if ps.Size <= 0 {
		ps.Size = DefaultPageSize
	}
	return ps.Size
}

// Reset goes back to the first page.
func (ps *PageState) Reset() {
	ps.Current = 1
}

// Clamp keeps Current within [1, max(1, TotalPages(n))].
func (ps *PageState) Clamp(n int) {
	last := TotalPages(n, ps.size())
	if last < 1 {
		last = 1
	}
	if ps.Current > last {
		ps.Current = last
	}
	if ps.Current < 1 {
		ps.Current = 1
	}
}

// Go moves to page `page`, clamped against n items.
func (ps *PageState) Go(page, n int) {
	ps.Current = page
	ps.Clamp(n)
}

// Page is one page of a filtered lesson list.
type Page struct {
	Lessons    []Lesson `json:"lessons"`
	Number     int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Total      int      `json:"total"`
	HasPrev    bool     `json:"has_prev"`
	HasNext    bool     `json:"has_next"`
}

// PageOf slices `lessons` according to ps. ps is clamped first.
func PageOf(lessons []Lesson, ps *PageState) Page {
	ps.Clamp(len(lessons))
	total := TotalPages(len(lessons), ps.size())
	return Page{
		Lessons:    Paginate(lessons, ps.size(), ps.Current),
		Number:     ps.Current,
		TotalPages: total,
		Total:      len(lessons),
		HasPrev:    ps.Current > 1,
		HasNext:    ps.Current < total,
	}
}
