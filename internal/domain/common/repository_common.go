package common

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort is a column + direction; each domain validates its own columns.
type Sort struct {
	Column string
	Order  SortOrder
}

// Page is 1-based offset paging. PerPage <= 0 means the adapter default.
type Page struct {
	Number  int
	PerPage int
}

const (
	DefaultPerPage = 50
	MaxPerPage     = 200
)

// Normalize clamps p into a usable range.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset is the number of items skipped before this page.
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.PerPage
}

type PageResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
}

// Paginate slices an in-memory result set. Firestore adapters load the
// filtered set and page it here.
func Paginate[T any](all []T, p Page) PageResult[T] {
	p = p.Normalize()
	total := len(all)
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.PerPage
	if end > total {
		end = total
	}
	pages := 0
	if total > 0 {
		pages = (total + p.PerPage - 1) / p.PerPage
	}
	items := make([]T, end-start)
	copy(items, all[start:end])
	return PageResult[T]{
		Items:      items,
		TotalCount: total,
		TotalPages: pages,
		Page:       p.Number,
		PerPage:    p.PerPage,
	}
}
