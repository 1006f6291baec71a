// Package pagination holds offset-based page types shared by repositories.
package pagination

import (
	"errors"
	"strings"
)

// ErrInvalidPageRequest reports paging input that violates the caller
// contract. It is returned before any store access happens.
var ErrInvalidPageRequest = errors.New("invalid_page_request")

// SortDirection selects ascending or descending ordering.
type SortDirection string

const (
	Ascending  SortDirection = "ASC"
	Descending SortDirection = "DESC"
)

// Normalize maps unknown values to Descending, the repository default.
func (d SortDirection) Normalize() SortDirection {
	if strings.EqualFold(string(d), string(Ascending)) {
		return Ascending
	}
	return Descending
}

// Request describes one page of a filtered result set. Page and
// ItemsPerPage are 1-based.
type Request struct {
	Page         int64
	ItemsPerPage int64
	SortBy       string
	Direction    SortDirection
}

func (r Request) Validate() error {
	if r.Page < 1 || r.ItemsPerPage < 1 {
		return ErrInvalidPageRequest
	}
	return nil
}

func (r Request) Offset() int64 {
	return (r.Page - 1) * r.ItemsPerPage
}

// Page is one page of identifiers plus result-set counters.
type Page[K comparable] struct {
	Items        []K
	CurrentPage  int64
	ItemsPerPage int64
	TotalItems   int64
	TotalPages   int64
}

// PageOf carries materialized entities with the counters copied from the
// key page they were resolved from.
type PageOf[T any] struct {
	Items        []*T
	CurrentPage  int64
	ItemsPerPage int64
	TotalItems   int64
	TotalPages   int64
}

// TotalPages computes ceiling(totalItems / itemsPerPage).
func TotalPages(totalItems, itemsPerPage int64) int64 {
	if itemsPerPage < 1 {
		return 0
	}
	return (totalItems + itemsPerPage - 1) / itemsPerPage
}
