package domain

// PaginatedResult for list responses
type PaginatedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewPaginatedResult[T any](data []T, total int64, page, limit int) *PaginatedResult[T] {
	if data == nil {
		data = []T{}
	}
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &PaginatedResult[T]{Data: data, Total: total, Page: page, Limit: limit, TotalPages: pages}
}

const (
	MinPageSize = 5
	MaxPageSize = 50
)

// NormalizePage clamps page to >= 1 and limit into [MinPageSize, MaxPageSize],
// using def when limit is unset.
func NormalizePage(page, limit, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = def
	}
	if limit < MinPageSize {
		limit = MinPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
