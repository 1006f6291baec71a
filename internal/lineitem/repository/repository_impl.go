package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/storelane/merchant/internal/clock"
	"github.com/storelane/merchant/internal/lineitem/domain"
)

type repo struct {
	genID *snowflake.Node
	clk   clock.Clock
}

func Provide(genID *snowflake.Node, clk clock.Clock) domain.Repository {
	return &repo{genID: genID, clk: clk}
}

func (r *repo) LoadForContainer(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*domain.LineItem, error) {
	var items []*domain.LineItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, position, sku, name, quantity, unit_amount, total_amount, metadata, created_at, updated_at
		 FROM invoice_items WHERE invoice_id = ? ORDER BY position ASC, id ASC`,
		invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Save replaces the invoice's lines wholesale. Line identity is not stable
// across saves; the invoice is the consistency unit.
func (r *repo) Save(ctx context.Context, db *gorm.DB, items []*domain.LineItem, invoiceID snowflake.ID) error {
	err := db.WithContext(ctx).Exec(
		`DELETE FROM invoice_items WHERE invoice_id = ?`, invoiceID,
	).Error
	if err != nil {
		return err
	}

	now := r.clk.Now()
	for position, item := range items {
		if item.ID == 0 {
			item.ID = r.genID.Generate()
		}
		item.InvoiceID = invoiceID
		item.Position = position
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		item.UpdatedAt = now
		if item.Metadata == nil {
			item.Metadata = datatypes.JSONMap{}
		}

		err := db.WithContext(ctx).Exec(
			`INSERT INTO invoice_items (id, invoice_id, position, sku, name, quantity, unit_amount, total_amount, metadata, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.InvoiceID,
			item.Position,
			item.SKU,
			item.Name,
			item.Quantity,
			item.UnitAmount,
			item.TotalAmount,
			item.Metadata,
			item.CreatedAt,
			item.UpdatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}
