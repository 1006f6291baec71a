package repository

import (
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/storelane/merchant/internal/cache"
	"github.com/storelane/merchant/internal/config"
	"github.com/storelane/merchant/internal/invoice/domain"
)

type invoiceCache struct {
	entries cache.Cache[snowflake.ID, *domain.Invoice]
	ttl     time.Duration
}

// ProvideCache returns the read-through cache for assembled invoice
// aggregates.
func ProvideCache(cfg config.Config) domain.Cache {
	return &invoiceCache{
		entries: cache.NewTTLCache[snowflake.ID, *domain.Invoice](),
		ttl:     cfg.InvoiceCacheTTL,
	}
}

// Get hands out a clone so callers can edit the result without polluting
// the cached aggregate or racing other readers.
func (c *invoiceCache) Get(key snowflake.ID) (*domain.Invoice, bool) {
	invoice, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return invoice.Clone(), true
}

func (c *invoiceCache) Set(key snowflake.ID, invoice *domain.Invoice) {
	if invoice == nil {
		return
	}
	c.entries.Set(key, invoice.Clone(), c.ttl)
}

func (c *invoiceCache) Invalidate(key snowflake.ID) {
	c.entries.Delete(key)
}
