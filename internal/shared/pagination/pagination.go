// Package pagination implements the list-endpoint paging convention shared
// by every resource: 1-indexed pages, bounded page sizes, and the
// {data, page, pageSize, total} response envelope.
package pagination

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Request is a page/pageSize pair. User-supplied values go through Clamp;
// internal callers (CSV export) page with their own chunk size.
type Request struct {
	Page     int
	PageSize int
}

// Clamp normalizes raw paging inputs. Out-of-range values clamp instead of
// erroring; zero values take the defaults.
func Clamp(page, pageSize int) Request {
	if page < 1 {
		page = DefaultPage
	}
	switch {
	case pageSize == 0:
		pageSize = DefaultPageSize
	case pageSize < 1:
		pageSize = 1
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return Request{Page: page, PageSize: pageSize}
}

// Offset returns the row offset for the requested page.
func (r Request) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Limit returns the page size as a query limit.
func (r Request) Limit() int {
	return r.PageSize
}

// Envelope is the wire shape of every paginated list response.
type Envelope[T any] struct {
	Data     []T   `json:"data"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// NewEnvelope wraps a page of rows with its paging metadata. A nil slice
// serializes as an empty array, never null.
func NewEnvelope[T any](data []T, req Request, total int64) Envelope[T] {
	if data == nil {
		data = []T{}
	}
	return Envelope[T]{Data: data, Page: req.Page, PageSize: req.PageSize, Total: total}
}
