package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository owns persistence of orders. The invoice aggregate only reads
// through it; order writes belong to the order lifecycle, not the invoice.
type Repository interface {
	// FindByInvoice returns the orders referencing one invoice, in store
	// order.
	FindByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*Order, error)
}
