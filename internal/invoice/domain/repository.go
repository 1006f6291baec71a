package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/storelane/merchant/pkg/db/pagination"
	"github.com/storelane/merchant/pkg/repository"
)

var (
	ErrNilInvoice = errors.New("nil_invoice")
	ErrMissingKey = errors.New("missing_invoice_key")
	ErrNotFound   = errors.New("invoice_not_found")
)

// Cache is the read-through cache in front of single-aggregate lookups.
// Every mutating repository operation invalidates the touched key.
type Cache interface {
	Get(key snowflake.ID) (*Invoice, bool)
	Set(key snowflake.ID, invoice *Invoice)
	Invalidate(key snowflake.ID)
}

// Repository persists invoice aggregates and answers the paged search and
// filter queries over them. Keys-only forms return identifiers for lazy
// materialization; aggregate forms wrap them and assemble each key.
type Repository interface {
	repository.PagedRepository[Invoice, snowflake.ID]

	// MaxDocumentNumber returns the highest assigned invoice number, or 0
	// when no invoice exists.
	MaxDocumentNumber(ctx context.Context) (int64, error)

	// SearchKeysInDateRange bounds the term search to invoice dates within
	// [start, end].
	SearchKeysInDateRange(ctx context.Context, term string, start, end time.Time, req pagination.Request) (pagination.Page[snowflake.ID], error)

	// Invoice-status filters, keys and aggregate forms.
	KeysMatchingStatus(ctx context.Context, term string, statusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error)
	KeysNotMatchingStatus(ctx context.Context, term string, statusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error)
	MatchingStatus(ctx context.Context, term string, statusID int64, req pagination.Request) (pagination.PageOf[Invoice], error)
	NotMatchingStatus(ctx context.Context, term string, statusID int64, req pagination.Request) (pagination.PageOf[Invoice], error)

	// Order-status filters. A "not fulfilled" status key also matches
	// invoices with no orders at all.
	KeysMatchingOrderStatus(ctx context.Context, orderStatusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error)
	KeysMatchingTermAndOrderStatus(ctx context.Context, term string, orderStatusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error)
	KeysNotMatchingOrderStatus(ctx context.Context, orderStatusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error)
	KeysMatchingTermNotOrderStatus(ctx context.Context, term string, orderStatusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error)
	MatchingOrderStatus(ctx context.Context, orderStatusID int64, req pagination.Request) (pagination.PageOf[Invoice], error)
	MatchingTermAndOrderStatus(ctx context.Context, term string, orderStatusID int64, req pagination.Request) (pagination.PageOf[Invoice], error)
	NotMatchingOrderStatus(ctx context.Context, orderStatusID int64, req pagination.Request) (pagination.PageOf[Invoice], error)
	MatchingTermNotOrderStatus(ctx context.Context, term string, orderStatusID int64, req pagination.Request) (pagination.PageOf[Invoice], error)

	// Collection membership.
	ExistsInCollection(ctx context.Context, invoiceID, collectionID snowflake.ID) (bool, error)
	AddToCollection(ctx context.Context, invoiceID, collectionID snowflake.ID) error
	RemoveFromCollection(ctx context.Context, invoiceID, collectionID snowflake.ID) error
	KeysInCollection(ctx context.Context, collectionID snowflake.ID, req pagination.Request) (pagination.Page[snowflake.ID], error)
	KeysInCollectionMatching(ctx context.Context, collectionID snowflake.ID, term string, req pagination.Request) (pagination.Page[snowflake.ID], error)
	KeysNotInCollection(ctx context.Context, collectionID snowflake.ID, req pagination.Request) (pagination.Page[snowflake.ID], error)
	KeysNotInCollectionMatching(ctx context.Context, collectionID snowflake.ID, term string, req pagination.Request) (pagination.Page[snowflake.ID], error)
	InCollection(ctx context.Context, collectionID snowflake.ID, req pagination.Request) (pagination.PageOf[Invoice], error)
	InCollectionMatching(ctx context.Context, collectionID snowflake.ID, term string, req pagination.Request) (pagination.PageOf[Invoice], error)
	NotInCollection(ctx context.Context, collectionID snowflake.ID, req pagination.Request) (pagination.PageOf[Invoice], error)
	NotInCollectionMatching(ctx context.Context, collectionID snowflake.ID, term string, req pagination.Request) (pagination.PageOf[Invoice], error)
}
