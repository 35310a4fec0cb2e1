package core

import (
	"context"
	"iter"
)

var paginationMetadataSchema = NewSchema("PaginationMetadata",
	Required[bool]("has_more"),
	RequiredNullable[string]("next_cursor"),
)

// PaginationMetadata is the cursor block of every list response.
type PaginationMetadata struct{ Model }

// HasMore reports whether another page exists.
func (m PaginationMetadata) HasMore() (bool, error) { return Get[bool](m.Model, "has_more") }

// NextCursor is the cursor of the following page; null on the last page.
func (m PaginationMetadata) NextCursor() (Opt[string], error) {
	return GetOpt[string](m.Model, "next_cursor")
}

func registerPagination(c *Codec) {
	RegisterModel(c, paginationMetadataSchema, func(m Model) PaginationMetadata { return PaginationMetadata{m} })
}

// Page is one page of a cursor-paginated list: a data array plus pagination
// metadata. Like every model it is decoded lazily.
type Page[T any] struct{ Model }

// PageSchema declares the list envelope of item type T.
func PageSchema[T any](name string) *Schema {
	return NewSchema(name,
		Required[[]T]("data"),
		Required[PaginationMetadata]("pagination_metadata"),
	)
}

// RegisterPage installs the decoder for Page[T].
func RegisterPage[T any](c *Codec, name string) {
	RegisterModel(c, PageSchema[T](name), func(m Model) Page[T] { return Page[T]{m} })
}

// Data returns the items of this page.
func (p Page[T]) Data() ([]T, error) { return Get[[]T](p.Model, "data") }

// PaginationMetadata returns the cursor block.
func (p Page[T]) PaginationMetadata() (PaginationMetadata, error) {
	return Get[PaginationMetadata](p.Model, "pagination_metadata")
}

// NextCursor returns the cursor of the following page, or false when this is
// the last page or the metadata does not decode.
func (p Page[T]) NextCursor() (string, bool) {
	md, err := p.PaginationMetadata()
	if err != nil {
		return "", false
	}
	more, err := md.HasMore()
	if err != nil || !more {
		return "", false
	}
	cur, err := md.NextCursor()
	if err != nil {
		return "", false
	}
	s, ok := cur.Get()
	return s, ok && s != ""
}

// PageFetcher loads the page that starts at cursor; the empty cursor is the
// first page.
type PageFetcher[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Pager walks every item of a paginated list, fetching pages on demand.
//
//	pager := NewPager(fetch)
//	for pager.Next(ctx) {
//		item := pager.Current()
//	}
//	if err := pager.Err(); err != nil { ... }
type Pager[T any] struct {
	fetch   PageFetcher[T]
	page    Page[T]
	items   []T
	idx     int
	index   int
	cursor  string
	started bool
	done    bool
	err     error
	current T
}

// NewPager starts a pager at the first page.
func NewPager[T any](fetch PageFetcher[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch, index: -1}
}

// Next advances to the next item, fetching the following page when the
// current one is exhausted. It returns false at the end or on error.
func (p *Pager[T]) Next(ctx context.Context) bool {
	for p.err == nil {
		if p.idx < len(p.items) {
			p.current = p.items[p.idx]
			p.idx++
			p.index++
			return true
		}
		if p.done || !p.advance(ctx) {
			return false
		}
	}
	return false
}

func (p *Pager[T]) advance(ctx context.Context) bool {
	if p.started {
		next, ok := p.page.NextCursor()
		if !ok || next == p.cursor {
			p.done = true
			return false
		}
		p.cursor = next
	}
	p.started = true
	if err := ctx.Err(); err != nil {
		p.err = err
		return false
	}
	page, err := p.fetch(ctx, p.cursor)
	if err != nil {
		p.err = err
		return false
	}
	items, err := page.Data()
	if err != nil {
		p.err = err
		return false
	}
	p.page, p.items, p.idx = page, items, 0
	return true
}

// Current returns the item Next advanced to.
func (p *Pager[T]) Current() T { return p.current }

// Index returns the zero-based position of Current across all pages.
func (p *Pager[T]) Index() int { return p.index }

// Page returns the page Current belongs to.
func (p *Pager[T]) Page() Page[T] { return p.page }

// Err returns the error that stopped iteration, if any.
func (p *Pager[T]) Err() error { return p.err }

// All adapts the pager to a range-over-func iterator. The error, if any, is
// yielded once as the last element.
func (p *Pager[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for p.Next(ctx) {
			if !yield(p.Current(), nil) {
				return
			}
		}
		if err := p.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}
