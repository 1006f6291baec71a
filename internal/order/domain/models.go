// Package domain contains persistence models for fulfillment orders.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Store-resident order status keys. The set is closed; rows are seeded
// alongside the schema.
const (
	StatusNotFulfilled int64 = 1
	StatusOpen         int64 = 2
	StatusFulfilled    int64 = 3
	StatusBackOrder    int64 = 4
	StatusCancelled    int64 = 5
)

// OrderStatus is one row of the closed order-status enumeration.
type OrderStatus struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:text;not null"`
}

// TableName sets the database table name.
func (OrderStatus) TableName() string { return "order_statuses" }

// Order is a fulfillment order raised against an invoice. Orders reference
// the invoice but live their own lifecycle; an invoice can have zero of
// them. An invoice with no orders at all counts as not fulfilled, the same
// as one with an order in that status.
type Order struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	InvoiceID   snowflake.ID `gorm:"not null;index"`
	OrderNumber int64        `gorm:"not null"`
	StatusID    int64        `gorm:"not null;index"`
	Status      OrderStatus  `gorm:"-"`
	CreatedAt   time.Time    `gorm:"not null"`
	UpdatedAt   time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }
