// Package domain contains persistence models for invoice line items.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// LineItem is one line on an invoice. Lines belong to exactly one invoice
// and keep their position within it.
type LineItem struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	InvoiceID   snowflake.ID      `gorm:"not null;index"`
	Position    int               `gorm:"not null"`
	SKU         string            `gorm:"type:text"`
	Name        string            `gorm:"type:text;not null"`
	Quantity    int64             `gorm:"not null"`
	UnitAmount  int64             `gorm:"not null"`
	TotalAmount int64             `gorm:"not null"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt   time.Time         `gorm:"not null"`
	UpdatedAt   time.Time         `gorm:"not null"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "invoice_items" }
