package shared

// Page size bounds for list endpoints
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter is the paging, ordering and free-text part of every list query.
// Entity filters embed it and add their own criteria, see
// invoicing.FacturaFilter. OrderBy is checked against a per-repository
// whitelist before it reaches SQL.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// Normalize clamps Page and PageSize and folds OrderDir to asc or desc
func (f *Filter) Normalize() {
	f.Page = max(f.Page, 1)
	switch {
	case f.PageSize < 1:
		f.PageSize = DefaultPageSize
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
}

func (f Filter) Offset() int {
	return max(f.Page-1, 0) * f.PageSize
}

// Paginated is one page of a list plus the size of the whole result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}

// PageOf converts a page of entities with convert and wraps it for f
func PageOf[E, T any](entities []E, total int64, f Filter, convert func(*E) T) *Paginated[T] {
	items := make([]T, len(entities))
	for i := range entities {
		items[i] = convert(&entities[i])
	}
	page := NewPaginated(items, total, f.Page, f.PageSize)
	return &page
}
