package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"

	"github.com/storelane/merchant/internal/invoice/domain"
	"github.com/storelane/merchant/internal/invoice/search"
	"github.com/storelane/merchant/pkg/db/pagination"
)

// KeysMatchingStatus pages invoices matching the search term and the
// invoice status.
func (r *repo) KeysMatchingStatus(ctx context.Context, term string, statusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.Term(term).And(search.MatchStatus(statusID)), req)
}

// KeysNotMatchingStatus pages invoices matching the search term but not
// the invoice status.
func (r *repo) KeysNotMatchingStatus(ctx context.Context, term string, statusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.Term(term).And(search.NotStatus(statusID)), req)
}

func (r *repo) MatchingStatus(ctx context.Context, term string, statusID int64, req pagination.Request) (pagination.PageOf[domain.Invoice], error) {
	keys, err := r.KeysMatchingStatus(ctx, term, statusID, req)
	if err != nil {
		return pagination.PageOf[domain.Invoice]{}, err
	}
	return r.pageOf(ctx, keys)
}

func (r *repo) NotMatchingStatus(ctx context.Context, term string, statusID int64, req pagination.Request) (pagination.PageOf[domain.Invoice], error) {
	keys, err := r.KeysNotMatchingStatus(ctx, term, statusID, req)
	if err != nil {
		return pagination.PageOf[domain.Invoice]{}, err
	}
	return r.pageOf(ctx, keys)
}

// KeysMatchingOrderStatus pages invoices with at least one order in the
// given status. The not-fulfilled status also includes invoices with no
// orders.
func (r *repo) KeysMatchingOrderStatus(ctx context.Context, orderStatusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.MatchOrderStatus(orderStatusID), req)
}

// KeysMatchingTermAndOrderStatus combines the term search with the order
// status filter, orphan rule included.
func (r *repo) KeysMatchingTermAndOrderStatus(ctx context.Context, term string, orderStatusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.Term(term).And(search.MatchOrderStatus(orderStatusID)), req)
}

func (r *repo) KeysNotMatchingOrderStatus(ctx context.Context, orderStatusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.NotOrderStatus(orderStatusID), req)
}

func (r *repo) KeysMatchingTermNotOrderStatus(ctx context.Context, term string, orderStatusID int64, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.Term(term).And(search.NotOrderStatus(orderStatusID)), req)
}

func (r *repo) MatchingOrderStatus(ctx context.Context, orderStatusID int64, req pagination.Request) (pagination.PageOf[domain.Invoice], error) {
	keys, err := r.KeysMatchingOrderStatus(ctx, orderStatusID, req)
	if err != nil {
		return pagination.PageOf[domain.Invoice]{}, err
	}
	return r.pageOf(ctx, keys)
}

func (r *repo) MatchingTermAndOrderStatus(ctx context.Context, term string, orderStatusID int64, req pagination.Request) (pagination.PageOf[domain.Invoice], error) {
	keys, err := r.KeysMatchingTermAndOrderStatus(ctx, term, orderStatusID, req)
	if err != nil {
		return pagination.PageOf[domain.Invoice]{}, err
	}
	return r.pageOf(ctx, keys)
}

func (r *repo) NotMatchingOrderStatus(ctx context.Context, orderStatusID int64, req pagination.Request) (pagination.PageOf[domain.Invoice], error) {
	keys, err := r.KeysNotMatchingOrderStatus(ctx, orderStatusID, req)
	if err != nil {
		return pagination.PageOf[domain.Invoice]{}, err
	}
	return r.pageOf(ctx, keys)
}

func (r *repo) MatchingTermNotOrderStatus(ctx context.Context, term string, orderStatusID int64, req pagination.Request) (pagination.PageOf[domain.Invoice], error) {
	keys, err := r.KeysMatchingTermNotOrderStatus(ctx, term, orderStatusID, req)
	if err != nil {
		return pagination.PageOf[domain.Invoice]{}, err
	}
	return r.pageOf(ctx, keys)
}
