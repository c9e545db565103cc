// Package domain provides types shared by the inventory domain packages.
package domain

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Page carries pagination options for list operations.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Slice pages through an already filtered slice. Used by the in-memory store.
func Slice[T any](all []T, p Page) ListResult[T] {
	p = p.Normalize()
	res := ListResult[T]{TotalCount: int64(len(all)), Limit: p.Limit, Offset: p.Offset, Items: []T{}}
	if p.Offset >= len(all) {
		return res
	}
	end := p.Offset + p.Limit
	if end > len(all) {
		end = len(all)
	}
	res.Items = append(res.Items, all[p.Offset:end]...)
	return res
}
