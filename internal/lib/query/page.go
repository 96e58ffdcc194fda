package query

import "math"

// Pageable asks for page PageNumber (zero based) of PageSize rows.
type Pageable struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// PageRequest builds a Pageable for page pageNumber of pageSize rows.
func PageRequest(pageNumber, pageSize int) Pageable {
	return Pageable{PageNumber: pageNumber, PageSize: pageSize}
}

// Offset is the number of rows before the first row of the page. It is only
// meaningful for a Pageable that passes Validate.
func (p Pageable) Offset() int64 {
	return int64(p.PageNumber) * int64(p.PageSize)
}

// Validate rejects negative page numbers, non-positive sizes and pages
// whose offset does not fit in an int64.
func (p Pageable) Validate() error {
	const op = "page request"

	if p.PageNumber < 0 {
		return newQueryError(op, "page number must not be negative, got %d", p.PageNumber)
	}
	if p.PageSize <= 0 {
		return newQueryError(op, "page size must be positive, got %d", p.PageSize)
	}
	if int64(p.PageNumber) > math.MaxInt64/int64(p.PageSize) {
		return newQueryError(op, "page %d of size %d is out of range", p.PageNumber, p.PageSize)
	}
	return nil
}

// Page is one page of results plus what a client needs to navigate the
// rest.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage assembles a Page. When the page is non-empty and reaches past the
// reported total, the total is raised to offset+len(content) so it never
// contradicts the content actually returned.
func NewPage[T any](content []T, pageable Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	n := int64(len(content))
	if n > 0 && pageable.Offset()+int64(pageable.PageSize) > total {
		total = pageable.Offset() + n
	}

	return Page[T]{
		Content:       content,
		PageNumber:    pageable.PageNumber,
		PageSize:      pageable.PageSize,
		TotalElements: total,
		TotalPages:    totalPages(total, pageable.PageSize),
	}
}

// IsEmpty reports whether the page has no content.
func (p Page[T]) IsEmpty() bool {
	return len(p.Content) == 0
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.PageNumber+1 < p.TotalPages
}

func totalPages(total int64, size int) int {
	if size == 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}
