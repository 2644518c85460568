package service

import "github.com/spec-kit/job-board/internal/repository"

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	// keeps (page-1)*limit far from int overflow
	maxPage = 1_000_000
)

// Pagination is a normalized page/limit pair.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination applies defaults to missing or non-positive values and caps
// page and limit.
func NewPagination(page, limit int) Pagination {
	if page <= 0 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) repoPage() repository.Page {
	p = NewPagination(p.Page, p.Limit)
	return repository.Page{Limit: p.Limit, Offset: (p.Page - 1) * p.Limit}
}

// PageResult carries one page of items plus the numbers clients paginate with.
type PageResult[T any] struct {
	Items       []T
	Total       int
	TotalPages  int
	CurrentPage int
}

func newPageResult[T any](items []T, total int, p Pagination) PageResult[T] {
	p = NewPagination(p.Page, p.Limit)
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		Items:       items,
		Total:       total,
		TotalPages:  (total + p.Limit - 1) / p.Limit,
		CurrentPage: p.Page,
	}
}
