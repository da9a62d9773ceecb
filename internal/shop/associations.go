package shop

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/you/storefront/internal/cache"
	"github.com/you/storefront/internal/store"
)

const (
	associationsKey = "associations"
	maxAssociations = 10
)

type AssociationStore interface {
	TopAssociations(ctx context.Context, limit int) ([]store.Association, error)
}

// Associations serves the most frequent product pairs from cache. The pair
// table changes offline, so a cached answer may be up to one TTL old.
type Associations struct {
	store   AssociationStore
	cache   *cache.Cache[[]store.Association]
	group   singleflight.Group
	timeout time.Duration // bounds a shared load, 0 means none
}

func NewAssociations(s AssociationStore, c *cache.Cache[[]store.Association], timeout time.Duration) *Associations {
	return &Associations{store: s, cache: c, timeout: timeout}
}

func (a *Associations) Top(ctx context.Context) ([]store.Association, error) {
	if v, ok := a.cache.Get(associationsKey); ok {
		return v, nil
	}
	v, err, _ := a.group.Do(associationsKey, func() (any, error) {
		// a concurrent caller may have filled it while we waited for the group
		if v, ok := a.cache.Get(associationsKey); ok {
			return v, nil
		}
		// the load is shared by every waiting caller, so it must outlive the
		// request that happened to start it
		loadCtx, cancel := a.loadContext(ctx)
		defer cancel()
		rows, err := a.store.TopAssociations(loadCtx, maxAssociations)
		if err != nil {
			return nil, err
		}
		rows = nonNil(rows)
		a.cache.Set(associationsKey, rows)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]store.Association), nil
}

func (a *Associations) loadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// Warm loads the cache ahead of the first request.
func (a *Associations) Warm(ctx context.Context) (int, error) {
	rows, err := a.Top(ctx)
	return len(rows), err
}
