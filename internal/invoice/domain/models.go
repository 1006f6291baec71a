// Package domain contains the invoice aggregate and its persistence
// contracts.
package domain

import (
	"maps"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	lineitemdomain "github.com/storelane/merchant/internal/lineitem/domain"
	orderdomain "github.com/storelane/merchant/internal/order/domain"
)

// Store-resident invoice status keys. The set is closed; rows are seeded
// alongside the schema.
const (
	StatusUnpaid    int64 = 1
	StatusPaid      int64 = 2
	StatusPartial   int64 = 3
	StatusCancelled int64 = 4
	StatusFraud     int64 = 5
)

// InvoiceStatus is one row of the closed invoice-status enumeration. Each
// invoice references exactly one.
type InvoiceStatus struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:text;not null"`
}

// TableName sets the database table name.
func (InvoiceStatus) TableName() string { return "invoice_statuses" }

// Invoice is the aggregate root: the header row plus its owned line items
// and the orders referencing it. InvoiceNumber is the externally visible
// document number, assigned once at first persist and never reassigned;
// ID is the internal key.
type Invoice struct {
	ID            snowflake.ID      `gorm:"primaryKey"`
	InvoiceNumber int64             `gorm:"not null;uniqueIndex"`
	StatusID      int64             `gorm:"not null;index"`
	Status        InvoiceStatus     `gorm:"-"`
	BillToName    string            `gorm:"type:text;not null"`
	BillToEmail   string            `gorm:"type:text;not null"`
	InvoiceDate   time.Time         `gorm:"not null;index"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt     time.Time         `gorm:"not null"`
	UpdatedAt     time.Time         `gorm:"not null"`

	// SearchIndexID is the key of the denormalized search-index row,
	// populated after insert.
	SearchIndexID int64 `gorm:"-"`

	Items  []*lineitemdomain.LineItem `gorm:"-"`
	Orders []*orderdomain.Order       `gorm:"-"`

	dirty bool
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// MarkDirty records an unpersisted field change.
func (i *Invoice) MarkDirty() { i.dirty = true }

// ResetDirty clears the dirty flag after a successful persist.
func (i *Invoice) ResetDirty() { i.dirty = false }

func (i *Invoice) IsDirty() bool { return i.dirty }

// Clone returns a copy owning its own metadata, line items and orders, so
// edits on the result never reach the original. Used at the cache boundary
// to keep cached aggregates immutable from the outside.
func (i *Invoice) Clone() *Invoice {
	if i == nil {
		return nil
	}
	out := *i
	if i.Metadata != nil {
		out.Metadata = maps.Clone(i.Metadata)
	}
	if i.Items != nil {
		out.Items = make([]*lineitemdomain.LineItem, len(i.Items))
		for n, item := range i.Items {
			clone := *item
			if item.Metadata != nil {
				clone.Metadata = maps.Clone(item.Metadata)
			}
			out.Items[n] = &clone
		}
	}
	if i.Orders != nil {
		out.Orders = make([]*orderdomain.Order, len(i.Orders))
		for n, order := range i.Orders {
			clone := *order
			out.Orders[n] = &clone
		}
	}
	return &out
}

// SearchIndexEntry is the denormalized search-index row kept in lockstep
// with invoice insert and delete.
type SearchIndexEntry struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	InvoiceID snowflake.ID `gorm:"not null;uniqueIndex"`
}

// TableName sets the database table name.
func (SearchIndexEntry) TableName() string { return "invoice_search_index" }

// CollectionMembership links an invoice to a named collection. At most one
// row exists per (invoice, collection) pair; the unique index is the
// backstop for concurrent adds.
type CollectionMembership struct {
	InvoiceID    snowflake.ID `gorm:"primaryKey"`
	CollectionID snowflake.ID `gorm:"primaryKey"`
	CreatedAt    time.Time    `gorm:"not null"`
	UpdatedAt    time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (CollectionMembership) TableName() string { return "invoice_collections" }

// AppliedPayment records a payment applied against an invoice. Only the
// cascade on invoice delete touches it here; the payment domain owns the
// rest.
type AppliedPayment struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	InvoiceID snowflake.ID `gorm:"not null;index"`
	PaymentID snowflake.ID `gorm:"not null;index"`
	Amount    int64        `gorm:"not null"`
	CreatedAt time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (AppliedPayment) TableName() string { return "applied_payments" }

// OfferRedemption records an offer redeemed on an invoice. As with
// AppliedPayment, only the delete cascade touches it here.
type OfferRedemption struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	InvoiceID snowflake.ID `gorm:"not null;index"`
	OfferCode string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (OfferRedemption) TableName() string { return "offer_redemptions" }
