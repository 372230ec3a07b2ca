package customers

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/fsenterprise/billing-backend/pkg/errors"
	"github.com/fsenterprise/billing-backend/pkg/logger"
)

type recentStore interface {
	PushRecent(ctx context.Context, key, value string, limit int64) error
	ListRecent(ctx context.Context, key string, limit int64) ([]string, error)
	RecentCustomersKey() string
}

// Cache tracks recently billed customer names for form autocomplete. It is
// convenience state: recording failures are logged and swallowed so a cache
// outage never fails a billing write.
type Cache struct {
	store recentStore
	logg  *logger.Logger
	limit int64
}

// NewCache builds the recent-customer cache.
func NewCache(store recentStore, logg *logger.Logger, limit int) (*Cache, error) {
	if store == nil {
		return nil, fmt.Errorf("recent store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if limit <= 0 {
		limit = 25
	}
	return &Cache{store: store, logg: logg, limit: int64(limit)}, nil
}

// RecordCustomer pushes the name to the front of the recent list.
func (c *Cache) RecordCustomer(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if err := c.store.PushRecent(ctx, c.store.RecentCustomersKey(), name, c.limit); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "customer_name", name), "recording recent customer failed")
	}
}

// Recent returns the most recently billed customer names, newest first.
func (c *Cache) Recent(ctx context.Context) ([]string, error) {
	names, err := c.store.ListRecent(ctx, c.store.RecentCustomersKey(), c.limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing recent customers")
	}
	return names, nil
}
