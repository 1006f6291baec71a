// Package repository implements the invoice aggregate store.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/storelane/merchant/internal/clock"
	"github.com/storelane/merchant/internal/invoice/domain"
	"github.com/storelane/merchant/internal/invoice/search"
	lineitemdomain "github.com/storelane/merchant/internal/lineitem/domain"
	orderdomain "github.com/storelane/merchant/internal/order/domain"
	"github.com/storelane/merchant/pkg/db/pagination"
	"github.com/storelane/merchant/pkg/db/query"
	"github.com/storelane/merchant/pkg/repository"
)

// invoiceKeys names the paged-key source for invoice queries. Sortable
// columns are allow-listed; anything else orders by key.
var invoiceKeys = repository.KeySource{
	Table:     "invoices",
	KeyColumn: "id",
	Sortable: map[string]bool{
		"invoice_number": true,
		"invoice_date":   true,
		"bill_to_name":   true,
		"bill_to_email":  true,
		"created_at":     true,
	},
}

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	LineItems lineitemdomain.Repository
	Orders    orderdomain.Repository
	Cache     domain.Cache
}

type repo struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clk   clock.Clock
	items lineitemdomain.Repository
	ords  orderdomain.Repository
	cache domain.Cache
}

func Provide(p Params) domain.Repository {
	return &repo{
		db:    p.DB,
		log:   p.Log.Named("invoice.repository"),
		genID: p.GenID,
		clk:   p.Clock,
		items: p.LineItems,
		ords:  p.Orders,
		cache: p.Cache,
	}
}

// invoiceRow is the flat header projection: the invoice joined with its
// status and search-index rows.
type invoiceRow struct {
	ID            snowflake.ID
	InvoiceNumber int64
	StatusID      int64
	StatusName    string
	BillToName    string
	BillToEmail   string
	InvoiceDate   time.Time
	Metadata      datatypes.JSONMap
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SearchIndexID int64
}

const headerQuery = `SELECT invoices.id, invoices.invoice_number, invoices.status_id,
       invoice_statuses.name AS status_name,
       invoices.bill_to_name, invoices.bill_to_email, invoices.invoice_date,
       invoices.metadata, invoices.created_at, invoices.updated_at,
       COALESCE(invoice_search_index.id, 0) AS search_index_id
FROM invoices
JOIN invoice_statuses ON invoice_statuses.id = invoices.status_id
LEFT JOIN invoice_search_index ON invoice_search_index.invoice_id = invoices.id
WHERE invoices.id = ?`

// Get returns the assembled aggregate for key, or (nil, nil) when absent.
// Hits may be served from the read-through cache; every mutating operation
// invalidates the key.
func (r *repo) Get(ctx context.Context, key snowflake.ID) (*domain.Invoice, error) {
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	invoice, err := r.assemble(ctx, r.db, key)
	if err != nil || invoice == nil {
		return nil, err
	}
	r.cache.Set(key, invoice)
	return invoice, nil
}

// assemble loads the header row and materializes the aggregate. Sub-fetches
// use the header's own key, not the caller-supplied one, so a stale caller
// key cannot mismatch the assembly.
func (r *repo) assemble(ctx context.Context, db *gorm.DB, key snowflake.ID) (*domain.Invoice, error) {
	var row invoiceRow
	if err := db.WithContext(ctx).Raw(headerQuery, key).Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("load invoice header: %w", err)
	}
	if row.ID == 0 {
		return nil, nil
	}

	items, err := r.items.LoadForContainer(ctx, db, row.ID)
	if err != nil {
		return nil, fmt.Errorf("load invoice line items: %w", err)
	}
	orders, err := r.ords.FindByInvoice(ctx, db, row.ID)
	if err != nil {
		return nil, fmt.Errorf("load invoice orders: %w", err)
	}

	invoice := &domain.Invoice{
		ID:            row.ID,
		InvoiceNumber: row.InvoiceNumber,
		StatusID:      row.StatusID,
		Status:        domain.InvoiceStatus{ID: row.StatusID, Name: row.StatusName},
		BillToName:    row.BillToName,
		BillToEmail:   row.BillToEmail,
		InvoiceDate:   row.InvoiceDate,
		Metadata:      row.Metadata,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		SearchIndexID: row.SearchIndexID,
		Items:         items,
		Orders:        orders,
	}
	invoice.ResetDirty()
	return invoice, nil
}

// GetAll streams aggregates one key at a time. The sequence is single-pass
// and non-restartable; keys resolved up front, aggregates materialized on
// pull so memory stays bounded for bulk reads.
func (r *repo) GetAll(ctx context.Context, keys ...snowflake.ID) iter.Seq2[*domain.Invoice, error] {
	return func(yield func(*domain.Invoice, error) bool) {
		if len(keys) == 0 {
			all, err := r.allKeys(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			keys = all
		}
		r.stream(ctx, keys, yield)
	}
}

// GetByQuery streams aggregates matching the predicate. Predicates may
// join in ways that repeat a key, so keys de-duplicate before assembly.
func (r *repo) GetByQuery(ctx context.Context, pred query.Predicate) iter.Seq2[*domain.Invoice, error] {
	return func(yield func(*domain.Invoice, error) bool) {
		var keys []snowflake.ID
		err := pred.Apply(r.db.WithContext(ctx).Table("invoices")).
			Pluck("id", &keys).Error
		if err != nil {
			yield(nil, fmt.Errorf("resolve invoice keys: %w", err))
			return
		}

		seen := make(map[snowflake.ID]struct{}, len(keys))
		distinct := keys[:0]
		for _, k := range keys {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			distinct = append(distinct, k)
		}
		r.stream(ctx, distinct, yield)
	}
}

// fetch serves cache hits but never populates the cache on a miss. Bulk
// paths go through here so streaming a large result set does not pin every
// aggregate in memory for the cache TTL; only Get warms the cache.
func (r *repo) fetch(ctx context.Context, key snowflake.ID) (*domain.Invoice, error) {
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}
	return r.assemble(ctx, r.db, key)
}

func (r *repo) stream(ctx context.Context, keys []snowflake.ID, yield func(*domain.Invoice, error) bool) {
	for _, key := range keys {
		invoice, err := r.fetch(ctx, key)
		if err != nil {
			yield(nil, err)
			return
		}
		if invoice == nil {
			continue
		}
		if !yield(invoice, nil) {
			return
		}
	}
}

func (r *repo) allKeys(ctx context.Context) ([]snowflake.ID, error) {
	var keys []snowflake.ID
	err := r.db.WithContext(ctx).Table("invoices").Order("id ASC").Pluck("id", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("resolve invoice keys: %w", err)
	}
	return keys, nil
}

// Insert persists a new aggregate in one transaction: header, search-index
// row, then line items. The document number is assigned here, exactly once.
func (r *repo) Insert(ctx context.Context, invoice *domain.Invoice) error {
	if invoice == nil {
		return domain.ErrNilInvoice
	}

	now := r.clk.Now()
	if invoice.ID == 0 {
		invoice.ID = r.genID.Generate()
	}
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	if invoice.StatusID == 0 {
		invoice.StatusID = domain.StatusUnpaid
	}
	if invoice.Metadata == nil {
		invoice.Metadata = datatypes.JSONMap{}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if invoice.InvoiceNumber == 0 {
			highest, err := maxDocumentNumber(ctx, tx)
			if err != nil {
				return err
			}
			invoice.InvoiceNumber = highest + 1
		}

		err := tx.Exec(
			`INSERT INTO invoices (id, invoice_number, status_id, bill_to_name, bill_to_email, invoice_date, metadata, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			invoice.ID,
			invoice.InvoiceNumber,
			invoice.StatusID,
			invoice.BillToName,
			invoice.BillToEmail,
			invoice.InvoiceDate,
			invoice.Metadata,
			invoice.CreatedAt,
			invoice.UpdatedAt,
		).Error
		if err != nil {
			return fmt.Errorf("insert invoice header: %w", err)
		}

		if err := tx.Exec(`INSERT INTO invoice_search_index (invoice_id) VALUES (?)`, invoice.ID).Error; err != nil {
			return fmt.Errorf("insert search index row: %w", err)
		}
		var indexID int64
		if err := tx.Raw(`SELECT id FROM invoice_search_index WHERE invoice_id = ?`, invoice.ID).Scan(&indexID).Error; err != nil {
			return fmt.Errorf("read search index row: %w", err)
		}
		invoice.SearchIndexID = indexID

		return r.items.Save(ctx, tx, invoice.Items, invoice.ID)
	})
	if err != nil {
		return err
	}

	invoice.ResetDirty()
	r.cache.Invalidate(invoice.ID)
	return nil
}

// Update persists header changes and replaces the line items in one
// transaction. The search-index row is not refreshed here; reindexing is a
// separate concern.
func (r *repo) Update(ctx context.Context, invoice *domain.Invoice) error {
	if invoice == nil {
		return domain.ErrNilInvoice
	}
	if invoice.ID == 0 {
		return domain.ErrMissingKey
	}

	invoice.UpdatedAt = r.clk.Now()
	if invoice.Metadata == nil {
		invoice.Metadata = datatypes.JSONMap{}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE invoices
			 SET status_id = ?, bill_to_name = ?, bill_to_email = ?, invoice_date = ?, metadata = ?, updated_at = ?
			 WHERE id = ?`,
			invoice.StatusID,
			invoice.BillToName,
			invoice.BillToEmail,
			invoice.InvoiceDate,
			invoice.Metadata,
			invoice.UpdatedAt,
			invoice.ID,
		)
		if res.Error != nil {
			return fmt.Errorf("update invoice header: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		return r.items.Save(ctx, tx, invoice.Items, invoice.ID)
	})
	if err != nil {
		return err
	}

	invoice.ResetDirty()
	r.cache.Invalidate(invoice.ID)
	return nil
}

// deleteStatements remove everything referencing the invoice before the
// header row itself. Order matters; a failure anywhere aborts the whole
// transaction so no partial cascade is ever visible.
var deleteStatements = []string{
	`DELETE FROM applied_payments WHERE invoice_id = ?`,
	`DELETE FROM invoice_items WHERE invoice_id = ?`,
	`DELETE FROM invoice_search_index WHERE invoice_id = ?`,
	`DELETE FROM offer_redemptions WHERE invoice_id = ?`,
	`DELETE FROM invoice_collections WHERE invoice_id = ?`,
	`DELETE FROM invoices WHERE id = ?`,
}

func (r *repo) Delete(ctx context.Context, key snowflake.ID) error {
	if key == 0 {
		return domain.ErrMissingKey
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range deleteStatements {
			if err := tx.Exec(stmt, key).Error; err != nil {
				return fmt.Errorf("cascade delete invoice: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.cache.Invalidate(key)
	return nil
}

func (r *repo) MaxDocumentNumber(ctx context.Context) (int64, error) {
	return maxDocumentNumber(ctx, r.db.WithContext(ctx))
}

func maxDocumentNumber(ctx context.Context, db *gorm.DB) (int64, error) {
	var highest sql.NullInt64
	err := db.WithContext(ctx).Raw(`SELECT MAX(invoice_number) FROM invoices`).Scan(&highest).Error
	if err != nil {
		return 0, fmt.Errorf("read max document number: %w", err)
	}
	if !highest.Valid {
		return 0, nil
	}
	return highest.Int64, nil
}

// SearchKeys returns one page of keys for a free-form search term.
func (r *repo) SearchKeys(ctx context.Context, term string, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.Term(term), req)
}

// SearchKeysInDateRange bounds the term search to invoice dates within
// [start, end], inclusive.
func (r *repo) SearchKeysInDateRange(ctx context.Context, term string, start, end time.Time, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return r.pagedKeys(ctx, search.Term(term).And(search.InDateRange(start, end)), req)
}

func (r *repo) pagedKeys(ctx context.Context, pred query.Predicate, req pagination.Request) (pagination.Page[snowflake.ID], error) {
	return repository.PagedKeys[snowflake.ID](ctx, r.db, invoiceKeys, pred, req)
}

// pageOf materializes a key page into an aggregate page, copying the
// counters through unchanged.
func (r *repo) pageOf(ctx context.Context, keys pagination.Page[snowflake.ID]) (pagination.PageOf[domain.Invoice], error) {
	page := pagination.PageOf[domain.Invoice]{
		Items:        make([]*domain.Invoice, 0, len(keys.Items)),
		CurrentPage:  keys.CurrentPage,
		ItemsPerPage: keys.ItemsPerPage,
		TotalItems:   keys.TotalItems,
		TotalPages:   keys.TotalPages,
	}
	for _, key := range keys.Items {
		invoice, err := r.fetch(ctx, key)
		if err != nil {
			return pagination.PageOf[domain.Invoice]{}, err
		}
		if invoice == nil {
			continue
		}
		page.Items = append(page.Items, invoice)
	}
	return page, nil
}
