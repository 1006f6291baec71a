package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/storelane/merchant/pkg/db/pagination"
	"github.com/storelane/merchant/pkg/db/query"
)

// KeySource names the table and key column a paged key query runs against,
// plus the columns callers may sort by. Sort columns outside the allow list
// fall back to the key column, which keeps ORDER BY free of caller input.
type KeySource struct {
	Table     string
	KeyColumn string
	Sortable  map[string]bool
}

// PagedKeys resolves one page of keys for the predicate. The total is
// counted over the same predicate without limit or offset; a page past the
// end yields empty items with the counters still populated. Ties on the
// sort column break by key so repeated calls page stably.
func PagedKeys[K comparable](ctx context.Context, db *gorm.DB, src KeySource, pred query.Predicate, req pagination.Request) (pagination.Page[K], error) {
	if err := req.Validate(); err != nil {
		return pagination.Page[K]{}, err
	}

	var total int64
	if err := pred.Apply(db.WithContext(ctx).Table(src.Table)).Count(&total).Error; err != nil {
		return pagination.Page[K]{}, fmt.Errorf("count %s keys: %w", src.Table, err)
	}

	page := pagination.Page[K]{
		Items:        []K{},
		CurrentPage:  req.Page,
		ItemsPerPage: req.ItemsPerPage,
		TotalItems:   total,
		TotalPages:   pagination.TotalPages(total, req.ItemsPerPage),
	}
	if req.Page > page.TotalPages {
		return page, nil
	}

	err := pred.Apply(db.WithContext(ctx).Table(src.Table)).
		Order(orderClause(src, req)).
		Limit(int(req.ItemsPerPage)).
		Offset(int(req.Offset())).
		Pluck(src.KeyColumn, &page.Items).Error
	if err != nil {
		return pagination.Page[K]{}, fmt.Errorf("select %s keys: %w", src.Table, err)
	}
	return page, nil
}

func orderClause(src KeySource, req pagination.Request) string {
	column := src.KeyColumn
	if req.SortBy != "" && src.Sortable[req.SortBy] {
		column = req.SortBy
	}
	direction := string(req.Direction.Normalize())
	if column == src.KeyColumn {
		return column + " " + direction
	}
	return column + " " + direction + ", " + src.KeyColumn + " ASC"
}
