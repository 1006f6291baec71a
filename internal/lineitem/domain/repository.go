package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository owns persistence of invoice line items. The invoice aggregate
// owns the lines for lifecycle purposes and calls through this interface;
// the db handle is passed explicitly so writes join the caller's
// transaction.
type Repository interface {
	// LoadForContainer returns the lines of one invoice in persisted order.
	LoadForContainer(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*LineItem, error)

	// Save replaces the stored lines of the invoice with items, assigning
	// keys and positions to new lines.
	Save(ctx context.Context, db *gorm.DB, items []*LineItem, invoiceID snowflake.ID) error
}
