package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storelane/merchant/internal/clock"
	"github.com/storelane/merchant/internal/config"
	"github.com/storelane/merchant/internal/invoice/domain"
	lineitemrepo "github.com/storelane/merchant/internal/lineitem/repository"
	orderrepo "github.com/storelane/merchant/internal/order/repository"
)

var schemaStatements = []string{
	`CREATE TABLE invoice_statuses (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE invoices (
		id INTEGER PRIMARY KEY,
		invoice_number INTEGER NOT NULL UNIQUE,
		status_id INTEGER NOT NULL,
		bill_to_name TEXT NOT NULL,
		bill_to_email TEXT NOT NULL,
		invoice_date TIMESTAMP NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE invoice_items (
		id INTEGER PRIMARY KEY,
		invoice_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		sku TEXT,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_amount INTEGER NOT NULL,
		total_amount INTEGER NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE order_statuses (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE orders (
		id INTEGER PRIMARY KEY,
		invoice_id INTEGER NOT NULL,
		order_number INTEGER NOT NULL,
		status_id INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE invoice_collections (
		invoice_id INTEGER NOT NULL,
		collection_id INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (invoice_id, collection_id)
	)`,
	`CREATE TABLE invoice_search_index (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		invoice_id INTEGER NOT NULL UNIQUE
	)`,
	`CREATE TABLE applied_payments (
		id INTEGER PRIMARY KEY,
		invoice_id INTEGER NOT NULL,
		payment_id INTEGER NOT NULL,
		amount INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE offer_redemptions (
		id INTEGER PRIMARY KEY,
		invoice_id INTEGER NOT NULL,
		offer_code TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`INSERT INTO invoice_statuses (id, name) VALUES
		(1, 'Unpaid'), (2, 'Paid'), (3, 'Partial'), (4, 'Cancelled'), (5, 'Fraud')`,
	`INSERT INTO order_statuses (id, name) VALUES
		(1, 'Not Fulfilled'), (2, 'Open'), (3, 'Fulfilled'), (4, 'Back Order'), (5, 'Cancelled')`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	for _, stmt := range schemaStatements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type fixture struct {
	db    *gorm.DB
	repo  domain.Repository
	clk   *clock.FakeClock
	genID *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithCache(t, ProvideCache(config.Config{InvoiceCacheTTL: time.Minute}))
}

func newFixtureWithCache(t *testing.T, c domain.Cache) *fixture {
	t.Helper()
	db := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	repo := Provide(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clk,
		LineItems: lineitemrepo.Provide(node, clk),
		Orders:    orderrepo.Provide(),
		Cache:     c,
	})
	return &fixture{db: db, repo: repo, clk: clk, genID: node}
}

func (f *fixture) seedInvoice(t *testing.T, number int64, name, email string, date time.Time) snowflake.ID {
	t.Helper()
	inv := &domain.Invoice{
		InvoiceNumber: number,
		StatusID:      domain.StatusUnpaid,
		BillToName:    name,
		BillToEmail:   email,
		InvoiceDate:   date,
	}
	require.NoError(t, f.repo.Insert(context.Background(), inv))
	return inv.ID
}

func (f *fixture) seedOrder(t *testing.T, invoiceID snowflake.ID, statusID int64) {
	t.Helper()
	now := f.clk.Now()
	require.NoError(t, f.db.Exec(
		`INSERT INTO orders (id, invoice_id, order_number, status_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		f.genID.Generate(), invoiceID, 1, statusID, now, now,
	).Error)
}

func (f *fixture) rowCount(t *testing.T, table string, invoiceID snowflake.ID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Raw(
		`SELECT COUNT(*) FROM `+table+` WHERE invoice_id = ?`, invoiceID,
	).Scan(&count).Error)
	return count
}
