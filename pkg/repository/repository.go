// Package repository defines the generic paged-repository contract shared
// by aggregate stores.
package repository

import (
	"context"
	"iter"

	"github.com/storelane/merchant/pkg/db/pagination"
	"github.com/storelane/merchant/pkg/db/query"
)

// PagedRepository is the CRUD-plus-search contract implemented once per
// aggregate type. Sequences returned by GetAll and GetByQuery are lazy,
// single-pass and non-restartable; each aggregate is materialized on pull.
type PagedRepository[T any, K comparable] interface {
	// Get returns the aggregate for key, or (nil, nil) when absent.
	Get(ctx context.Context, key K) (*T, error)

	// GetAll streams aggregates for the given keys in order. With no keys
	// it streams every aggregate in the store.
	GetAll(ctx context.Context, keys ...K) iter.Seq2[*T, error]

	// GetByQuery streams aggregates matching the predicate, de-duplicated
	// by key.
	GetByQuery(ctx context.Context, pred query.Predicate) iter.Seq2[*T, error]

	Insert(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, key K) error

	// SearchKeys returns one page of aggregate keys for a free-form search
	// term.
	SearchKeys(ctx context.Context, term string, req pagination.Request) (pagination.Page[K], error)
}
