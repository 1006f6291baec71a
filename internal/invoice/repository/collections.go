package repository

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/storelane/merchant/internal/invoice/domain"
	"github.com/storelane/merchant/internal/invoice/search"
	"github.com/storelane/merchant/pkg/db"
	"github.com/storelane/merchant/pkg/db/pagination"
)

// ExistsInCollection reports whether the invoice is a member of the
// collection.
func (r *repo) ExistsInCollection(ctx context.Context, invoiceID, collectionID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM invoice_collections WHERE invoice_id = ? AND collection_id = ?`,
		invoiceID, collectionID,
	).Scan(&count).Error
	if err != nil {
		return false, fmt.Errorf("check collection membership: %w", err)
	}
	return count > 0, nil
}

// AddToCollection makes the invoice a member of the collection. Adding an
// existing member is a no-op. The check-then-insert is not atomic against
// concurrent callers; the unique index on the pair backstops that race,
// and losing it means the invoice is already a member.
func (r *repo) AddToCollection(ctx context.Context, invoiceID, collectionID snowflake.ID) error {
	exists, err := r.ExistsInCollection(ctx, invoiceID, collectionID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return r.addMembership(ctx, invoiceID, collectionID)
}

// addMembership inserts the pair row. A unique violation means another
// writer won the window between check and insert; the invoice is a member
// either way.
func (r *repo) addMembership(ctx context.Context, invoiceID, collectionID snowflake.ID) error {
	now := r.clk.Now()
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO invoice_collections (invoice_id, collection_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		invoiceID, collectionID, now, now,
	).Error
	if db.IsDuplicateKeyErr(err) {
		r.log.Debug("concurrent collection add",
			zap.Int64("invoice_id", int64(invoiceID)),
			zap.Int64("collection_id", int64(collectionID)),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("add invoice to collection: %w", err)
	}
	return nil
}

// RemoveFromCollection drops the membership. Removing a non-member is not
// an error.
func (r *repo) RemoveFromCollection(ctx context.Context, invoiceID, collectionID snowflake.ID) error {
	err := r.db.WithContext(ctx).Exec(
		`DELETE FROM invoice_collections WHERE invoice_id = ? AND collection_id = ?`,
		invoiceID, collectionID,
	).Error
	if err != nil {
		return fmt.Errorf("remove invoice from collection: %w", err)
	}
	return nil
}

// KeysInCollection pages the members of one collection.
func (r *repo) KeysInCollection(ctx context.Context, collectionID snowflake.ID, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.InCollection(collectionID), req)
}

// KeysInCollectionMatching pages members that also match the search term.
func (r *repo) KeysInCollectionMatching(ctx context.Context, collectionID snowflake.ID, term string, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.Term(term).And(search.InCollection(collectionID)), req)
}

// KeysNotInCollection pages the invoices outside one collection.
func (r *repo) KeysNotInCollection(ctx context.Context, collectionID snowflake.ID, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.NotInCollection(collectionID), req)
}

func (r *repo) KeysNotInCollectionMatching(ctx context.Context, collectionID snowflake.ID, term string, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.Term(term).And(search.NotInCollection(collectionID)), req)
}

func (r *repo) InCollection(ctx context.Context, collectionID snowflake.ID, req pagination.Request) (pagination.PageOf[domain.Invoice], error) {
	keys, err := r.KeysInCollection(ctx, collectionID, req)
	if err != nil {
		return pagination.PageOf[domain.Invoice]{}, err
	}
	return r.pageOf(ctx, keys)
}

func (r *repo) InCollectionMatching(ctx context.Context, collectionID snowflake.ID, term string, req pagination.Request) (pagination.PageOf[domain.Invoice], error) {
	keys, err := r.KeysInCollectionMatching(ctx, collectionID, term, req)
	if err != nil {
		return pagination.PageOf[domain.Invoice]{}, err
	}
	return r.pageOf(ctx, keys)
}

func (r *repo) NotInCollection(ctx context.Context, collectionID snowflake.ID, req pagination.Request) (pagination.PageOf[domain.Invoice], error) {
	keys, err := r.KeysNotInCollection(ctx, collectionID, req)
	if err != nil {
		return pagination.PageOf[domain.Invoice]{}, err
	}
	return r.pageOf(ctx, keys)
}

func (r *repo) NotInCollectionMatching(ctx context.Context, collectionID snowflake.ID, term string, req pagination.Request) (pagination.PageOf[domain.Invoice], error) {
	keys, err := r.KeysNotInCollectionMatching(ctx, collectionID, term, req)
	if err != nil {
		return pagination.PageOf[domain.Invoice]{}, err
	}
	return r.pageOf(ctx, keys)
}
