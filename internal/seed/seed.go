// Package seed writes the status reference rows the repositories join
// against.
package seed

import (
	"context"
	"errors"

	"gorm.io/gorm"

	invoicedomain "github.com/storelane/merchant/internal/invoice/domain"
	orderdomain "github.com/storelane/merchant/internal/order/domain"
)

var invoiceStatuses = []invoicedomain.InvoiceStatus{
	{ID: invoicedomain.StatusUnpaid, Name: "Unpaid"},
	{ID: invoicedomain.StatusPaid, Name: "Paid"},
	{ID: invoicedomain.StatusPartial, Name: "Partial"},
	{ID: invoicedomain.StatusCancelled, Name: "Cancelled"},
	{ID: invoicedomain.StatusFraud, Name: "Fraud"},
}

var orderStatuses = []orderdomain.OrderStatus{
	{ID: orderdomain.StatusNotFulfilled, Name: "Not Fulfilled"},
	{ID: orderdomain.StatusOpen, Name: "Open"},
	{ID: orderdomain.StatusFulfilled, Name: "Fulfilled"},
	{ID: orderdomain.StatusBackOrder, Name: "Back Order"},
	{ID: orderdomain.StatusCancelled, Name: "Cancelled"},
}

// EnsureStatuses inserts any missing status rows. Existing rows are left
// untouched, so renames survive restarts.
func EnsureStatuses(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, status := range invoiceStatuses {
			if err := ensureRow(tx, "invoice_statuses", status.ID, status.Name); err != nil {
				return err
			}
		}
		for _, status := range orderStatuses {
			if err := ensureRow(tx, "order_statuses", status.ID, status.Name); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureRow(tx *gorm.DB, table string, id int64, name string) error {
	var count int64
	if err := tx.Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.Exec(`INSERT INTO `+table+` (id, name) VALUES (?, ?)`, id, name).Error
}
