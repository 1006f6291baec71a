package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/storelane/merchant/internal/order/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

type orderRow struct {
	ID          snowflake.ID
	InvoiceID   snowflake.ID
	OrderNumber int64
	StatusID    int64
	StatusName  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *repo) FindByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*domain.Order, error) {
	var rows []orderRow
	err := db.WithContext(ctx).Raw(
		`SELECT orders.id, orders.invoice_id, orders.order_number, orders.status_id,
		        order_statuses.name AS status_name, orders.created_at, orders.updated_at
		 FROM orders
		 JOIN order_statuses ON order_statuses.id = orders.status_id
		 WHERE orders.invoice_id = ?`,
		invoiceID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, &domain.Order{
			ID:          row.ID,
			InvoiceID:   row.InvoiceID,
			OrderNumber: row.OrderNumber,
			StatusID:    row.StatusID,
			Status:      domain.OrderStatus{ID: row.StatusID, Name: row.StatusName},
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return orders, nil
}
